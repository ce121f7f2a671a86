// Package normalize folds raw gotd wire values into the canonical gram
// model: peer directory maintenance, entity and media normalization, and the
// top-level message demultiplexer with its reply-resolution retry contract.
//
// All normalization functions are stateless transforms safe for concurrent
// use; the only shared mutable state is the Directory, which serializes its
// own access.
package normalize
