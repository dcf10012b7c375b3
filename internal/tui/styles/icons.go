package styles

// Icon names
const (
	IconPlay     = "play"
	IconPause    = "pause"
	IconStop     = "stop"
	IconNext     = "next"
	IconPrev     = "prev"
	IconShuffle  = "shuffle"
	IconRefresh  = "refresh"
	IconVolume   = "volume"
	IconBalance  = "balance"
	IconAlbum    = "album"
	IconTrack    = "track"
	IconCurrent  = "current"
	IconCursor   = "cursor"
	IconError    = "error"
	IconOK       = "ok"
	IconBarFull  = "bar-full"
	IconBarEmpty = "bar-empty"
	IconBlock    = "block"
)

var glyphs = map[string]string{
	IconPlay:     "▶",
	IconPause:    "⏸",
	IconStop:     "⏹",
	IconNext:     "⏭",
	IconPrev:     "⏮",
	IconShuffle:  "🔀",
	IconRefresh:  "🔄",
	IconVolume:   "🔊",
	IconBalance:  "🎚",
	IconAlbum:    "💿",
	IconTrack:    "♪",
	IconCurrent:  "▶",
	IconCursor:   "▸",
	IconError:    "✗",
	IconOK:       "✓",
	IconBarFull:  "━",
	IconBarEmpty: "─",
	IconBlock:    "█",
}

var asciiGlyphs = map[string]string{
	IconPlay:     ">",
	IconPause:    "||",
	IconStop:     "[]",
	IconNext:     ">>|",
	IconPrev:     "|<<",
	IconShuffle:  "~",
	IconRefresh:  "@",
	IconVolume:   "vol",
	IconBalance:  "bal",
	IconAlbum:    "*",
	IconTrack:    "-",
	IconCurrent:  ">",
	IconCursor:   ">",
	IconError:    "x",
	IconOK:       "+",
	IconBarFull:  "=",
	IconBarEmpty: "-",
	IconBlock:    "#",
}

var asciiOnly bool

// SetASCII switches Icon to plain ASCII glyphs for terminals without
// Unicode symbol fonts.
func SetASCII(enabled bool) {
	asciiOnly = enabled
}

// Icon resolves an icon name to a glyph. When ASCII mode is on, or the
// name has no Unicode glyph, the ASCII fallback is used. Unknown names
// resolve to "?".
func Icon(name string) string {
	if !asciiOnly {
		if g, ok := glyphs[name]; ok {
			return g
		}
	}
	if g, ok := asciiGlyphs[name]; ok {
		return g
	}
	return "?"
}

// StatusIcon returns a styled icon for the playback state.
func StatusIcon(playing bool) string {
	if playing {
		return Playing.Render(Icon(IconPlay))
	}
	return Paused.Render(Icon(IconPause))
}
