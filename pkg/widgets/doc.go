// Package widgets composes toolkit widget trees from declarative
// descriptors.
//
// A [Descriptor] captures configuration only. Realizing it against a
// [trace.Session] and a parent handle constructs the live widgets through
// the session, so the construction is traced along the way:
//
//	ui := widgets.VBox(
//	    widgets.Button{Text: "Yes", OnClick: yes},
//	    widgets.Button{Text: "No", OnClick: no},
//	)
//	w, err := widgets.Mount(s, ui)
//	code := s.Code()
//
// # Construction
//
// As with the rest of this module, struct literals are the canonical form
// and give access to every field. XxxOf helpers exist where a widget has
// one or two essential arguments, and WithX methods return copies.
//
// # Packing
//
// Containers pack their children when they are packed themselves. In a
// [Box] the first child is packed against the anchor side (top for
// vertical boxes, left for horizontal ones) without fill; every later
// child is packed against the same side, filling the cross axis, with the
// box padding on the main axis.
package widgets
