// Package gadgets owns the named admin adapters exposed by gadgetctl.
//
// Ownership boundary:
// - gadget metadata shape
// - gadget execution interface
// - factory table and registry primitives
//
// Gadgets are built from an explicit factory table at startup; there is no
// discovery of implementations at runtime.
package gadgets
