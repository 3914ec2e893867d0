// Package preset keeps the named presets of the host's fade effect and
// resolves the fade-in/fade-out selection against them.
//
// The catalog is read-only between refreshes. Names are kept verbatim so a
// selection can be re-applied; display order is collated for the user's
// language rather than sorted byte-wise.
package preset
