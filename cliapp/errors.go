//
// Date: 2026-10-14
// Author: Spicer Matthews <spicer@cloudmanic.com>
// Copyright (c) 2025 Cloudmanic Labs, LLC. All rights reserved.
//
// Description: Errors returned when a name cannot be resolved to a URI.
//

package cliapp

import "fmt"

// NotFoundError means a search had no results of the requested type.
type NotFoundError struct {
	Type  ItemType
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %ss with name '%s'", e.Type, e.Query)
}

// MissingURIError means the matched result has no playable URI.
type MissingURIError struct {
	Name string
}

func (e *MissingURIError) Error() string {
	return fmt.Sprintf("album %s has no uri", e.Name)
}
