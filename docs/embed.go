// Copyright © 2024 The ELPS authors

// Package docs embeds the reference guides printed by the CLI.
package docs

import _ "embed"

//go:embed store-format.md
var StoreFormat string
