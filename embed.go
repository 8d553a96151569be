package aktivnatura

import "embed"

// EmbeddedAssets holds the stylesheet and scripts served under /public/:
// site.css, admin.js (dashboard helpers) and popup.js (featured trip popup).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
