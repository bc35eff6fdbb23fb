package graph

// NodeFunc reads a value of type T from a node.
type NodeFunc[T any] func(*Node) T

// LinkFunc reads a value of type T from a link.
type LinkFunc[T any] func(*Link) T

// ConstNode returns an accessor that ignores the node and yields v.
func ConstNode[T any](v T) NodeFunc[T] {
	return func(*Node) T { return v }
}

// ConstLink returns an accessor that ignores the link and yields v.
func ConstLink[T any](v T) LinkFunc[T] {
	return func(*Link) T { return v }
}

// NodeAttr returns an accessor reading the named attribute. Missing or
// mistyped attributes yield fallback.
func NodeAttr[T any](name string, fallback T) NodeFunc[T] {
	return func(n *Node) T {
		return attrAs(n.Attr(name), fallback)
	}
}

// LinkAttr returns an accessor reading the named attribute. Missing or
// mistyped attributes yield fallback.
func LinkAttr[T any](name string, fallback T) LinkFunc[T] {
	return func(l *Link) T {
		return attrAs(l.Attr(name), fallback)
	}
}

// NodeColor reads Node.Color.
func NodeColor(n *Node) string { return n.Color }

// NodeVal reads Node.Val.
func NodeVal(n *Node) float64 { return n.Val }

// LinkColor reads Link.Color.
func LinkColor(l *Link) string { return l.Color }

// LinkWidth reads Link.Width.
func LinkWidth(l *Link) float64 { return l.Width }

// LinkDash reads Link.Dash.
func LinkDash(l *Link) []float64 { return l.Dash }

// LinkCurvature reads Link.Curvature.
func LinkCurvature(l *Link) float64 { return l.Curvature }

func attrAs[T any](v any, fallback T) T {
	if t, ok := v.(T); ok {
		return t
	}
	// JSON numbers decode as float64; allow int-typed accessors.
	if f, ok := v.(float64); ok {
		var zero T
		switch any(zero).(type) {
		case int:
			return any(int(f)).(T)
		}
	}
	return fallback
}
