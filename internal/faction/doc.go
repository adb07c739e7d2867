// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LoreForge Contributors

// Package faction contains the faction system domain model: hierarchy
// nodes forming a parent/child tree, ideologies, leaders, memberships,
// resource ledgers, and territories. Repository interfaces are defined
// here; implementations live in the memory and postgres subpackages.
//
// All entities are tenant-scoped. Identity is (tenant, ID); cross-entity
// references are by opaque faction ID only, never by shared pointers.
package faction
