package token

// A WriteStream consumes tokens one at a time.
type WriteStream interface {
	Put(Token)
}
