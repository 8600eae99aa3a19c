// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the catalogs embedded in the tscatalog binary.
*/
package assets

import (
	"embed"
)

// FS provides access to the embedded file system.
// Catalogs live under "resources/i18n".
var FS embed.FS
