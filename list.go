package xmlbind

// ListOf builds a record for an element holding only repeated item children.
func ListOf[C any](name string, item *Record[C]) (*Record[[]C], error) {
	return NewRecord(name, Children(func(s *[]C) *[]C { return s }, item))
}
