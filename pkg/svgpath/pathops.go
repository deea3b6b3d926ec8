package svgpath

func (path *SubPath) StartPoint() (float64, float64) {
	return path.X, path.Y
}

func (path *SubPath) EndPoint() (float64, float64) {
	if len(path.DrawTo) > 0 {
		last := path.DrawTo[len(path.DrawTo)-1]
		return last.X, last.Y
	}
	return path.X, path.Y
}

// IsClosed reports whether the subpath ends with a closepath command.
func (path *SubPath) IsClosed() bool {
	if len(path.DrawTo) == 0 {
		return false
	}
	return path.DrawTo[len(path.DrawTo)-1].Command == ClosePath
}
