// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instructions

// Allow the processor to execute custom logic against the underlying
// instruction types.
type Visitor interface {
	Create(*Create) error
	CreateCollection(*CreateCollection) error

	AddPlugin(*AddPlugin) error
	AddCollectionPlugin(*AddCollectionPlugin) error
	RemovePlugin(*RemovePlugin) error
	RemoveCollectionPlugin(*RemoveCollectionPlugin) error
	UpdatePlugin(*UpdatePlugin) error
	UpdateCollectionPlugin(*UpdateCollectionPlugin) error

	ApprovePluginAuthority(*ApprovePluginAuthority) error
	ApproveCollectionPluginAuthority(*ApproveCollectionPluginAuthority) error
	RevokePluginAuthority(*RevokePluginAuthority) error
	RevokeCollectionPluginAuthority(*RevokeCollectionPluginAuthority) error

	Burn(*Burn) error
	BurnCollection(*BurnCollection) error
	Transfer(*Transfer) error
	Update(*Update) error
	UpdateCollection(*UpdateCollection) error
	Compress(*Compress) error
	Decompress(*Decompress) error

	// Delegate actions:
	Freeze(*Freeze) error
	Thaw(*Thaw) error
}
