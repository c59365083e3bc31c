// Package notebox is the composition root of a note taking state layer.
//
// It wires the pure reducer and the Store of pkg/core with the seed
// adapter that loads fixtures from disk.
//
// The Store owns three collections (notes, trash and labels) plus a fixed
// palette of colors. Every mutation is an action applied by a pure
// reducer; the resulting immutable snapshot is published to subscribers in
// dispatch order.
//
// Features:
//
//   - **Single writer**: dispatches are serialized, readers get snapshots.
//   - **Soft delete**: deleting a note moves it to trash, PurgeNote destroys it.
//   - **Subscriptions**: every snapshot through Subscribe, change events through Watch.
//   - **Fixtures**: seed from YAML, JSON or a directory of Markdown notes.
//
// Usage:
//
//	store, err := notebox.Open("./fixtures/notes",
//		notebox.WithLogger(logger),
//	)
//
//	n, err := store.AddNote(ctx, core.NoteDraft{Content: "hi"})
//	_, err = store.TrashNote(ctx, n.ID)
package notebox
