package viewport

// EnsureVisible computes the minimal (topLine, topColumn) shift that
// brings (cursorLine, cursorChar) back into a widget of the given
// width/height while honoring scroll-off. Horizontal shifts apply only
// when wrap is disabled.
func EnsureVisible(buf BufferView, opts Options, width, height, topLine, topColumn, cursorLine, cursorChar int) (newTopLine, newTopColumn int, err error) {
	newTopLine = scrollVertical(height, opts.ScrollOff, topLine, cursorLine)
	if opts.Wrap {
		return newTopLine, 0, nil
	}

	cum, lerr := buf.LineCumulativeWidths(cursorLine)
	if lerr != nil {
		return newTopLine, topColumn, lerr
	}
	newTopColumn = scrollHorizontal(width, opts.ScrollOff, topColumn, cum[cursorChar])
	return newTopLine, newTopColumn, nil
}

func scrollVertical(height, scrollOff, topLine, cursorLine int) int {
	lo := topLine + scrollOff
	hi := topLine + height - 1 - scrollOff
	switch {
	case cursorLine < lo:
		shifted := cursorLine - scrollOff
		if shifted < 0 {
			shifted = 0
		}
		return shifted
	case cursorLine > hi:
		return cursorLine - (height - 1 - scrollOff)
	default:
		return topLine
	}
}

func scrollHorizontal(width, scrollOff, topColumn, cursorColumn int) int {
	lo := topColumn + scrollOff
	hi := topColumn + width - 1 - scrollOff
	switch {
	case cursorColumn < lo:
		shifted := cursorColumn - scrollOff
		if shifted < 0 {
			shifted = 0
		}
		return shifted
	case cursorColumn > hi:
		shifted := cursorColumn - (width - 1 - scrollOff)
		if shifted < 0 {
			shifted = 0
		}
		return shifted
	default:
		return topColumn
	}
}
