// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instructions

var _ Visitor = (*namer)(nil)

// Name returns the snake_case name of [ins], used in logs and metric labels.
func Name(ins Instruction) string {
	var n namer
	if ins == nil || ins.Visit(&n) != nil {
		return "unknown"
	}
	return n.name
}

type namer struct {
	name string
}

func (n *namer) Create(*Create) error {
	n.name = "create"
	return nil
}

func (n *namer) CreateCollection(*CreateCollection) error {
	n.name = "create_collection"
	return nil
}

func (n *namer) AddPlugin(*AddPlugin) error {
	n.name = "add_plugin"
	return nil
}

func (n *namer) AddCollectionPlugin(*AddCollectionPlugin) error {
	n.name = "add_collection_plugin"
	return nil
}

func (n *namer) RemovePlugin(*RemovePlugin) error {
	n.name = "remove_plugin"
	return nil
}

func (n *namer) RemoveCollectionPlugin(*RemoveCollectionPlugin) error {
	n.name = "remove_collection_plugin"
	return nil
}

func (n *namer) UpdatePlugin(*UpdatePlugin) error {
	n.name = "update_plugin"
	return nil
}

func (n *namer) UpdateCollectionPlugin(*UpdateCollectionPlugin) error {
	n.name = "update_collection_plugin"
	return nil
}

func (n *namer) ApprovePluginAuthority(*ApprovePluginAuthority) error {
	n.name = "approve_plugin_authority"
	return nil
}

func (n *namer) ApproveCollectionPluginAuthority(*ApproveCollectionPluginAuthority) error {
	n.name = "approve_collection_plugin_authority"
	return nil
}

func (n *namer) RevokePluginAuthority(*RevokePluginAuthority) error {
	n.name = "revoke_plugin_authority"
	return nil
}

func (n *namer) RevokeCollectionPluginAuthority(*RevokeCollectionPluginAuthority) error {
	n.name = "revoke_collection_plugin_authority"
	return nil
}

func (n *namer) Burn(*Burn) error {
	n.name = "burn"
	return nil
}

func (n *namer) BurnCollection(*BurnCollection) error {
	n.name = "burn_collection"
	return nil
}

func (n *namer) Transfer(*Transfer) error {
	n.name = "transfer"
	return nil
}

func (n *namer) Update(*Update) error {
	n.name = "update"
	return nil
}

func (n *namer) UpdateCollection(*UpdateCollection) error {
	n.name = "update_collection"
	return nil
}

func (n *namer) Compress(*Compress) error {
	n.name = "compress"
	return nil
}

func (n *namer) Decompress(*Decompress) error {
	n.name = "decompress"
	return nil
}

func (n *namer) Freeze(*Freeze) error {
	n.name = "freeze"
	return nil
}

func (n *namer) Thaw(*Thaw) error {
	n.name = "thaw"
	return nil
}
