// Package file provides the TOML-backed settings store.
//
// Settings live in config.toml under the config directory and hold the
// slow-moving knobs that should not need a flag on every invocation:
// the webhook URL, the default sync window, internal email domains for
// meeting classification, and the path to the desktop app's
// supabase.json cache.
package file
