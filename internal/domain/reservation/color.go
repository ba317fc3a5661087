package reservation

const (
	DefaultRehearsalColor    = "#4CAF50"
	DefaultBandShowColor     = "#2196F3"
	DefaultPersonalShowColor = "#9C27B0"
)

// ResolveColor keeps an explicit color, otherwise falls back per kind:
// rehearsals try the band then the room, band shows try the band.
func ResolveColor(kind Kind, requested, bandColor, roomColor string) string {
	if requested != "" {
		return requested
	}

	switch kind {
	case KindRehearsal:
		if bandColor != "" {
			return bandColor
		}
		if roomColor != "" {
			return roomColor
		}
		return DefaultRehearsalColor
	case KindBandShow:
		if bandColor != "" {
			return bandColor
		}
		return DefaultBandShowColor
	default:
		return DefaultPersonalShowColor
	}
}
