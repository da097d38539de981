// Package history persists chat sessions locally so conversations can
// be resumed across runs. Sessions and their messages are stored in
// BadgerDB, encoded with msgpack, keyed for chronological iteration.
package history
