package cell

// DateBits packs year/month/day/zone into the scalar word and leaves a
// separate nanosecond-of-day field in idx's high bits would be too
// cramped, so DATE! additionally borrows the ref slot for a *int64
// nanosecond-of-day when a time component is present. Dateless times (TIME!) use the same nanosecond encoding
// without the calendar fields.
type DateBits struct {
	Year  int16
	Month int8
	Day   int8
	Zone  int16 // minutes offset from UTC, matching the source's 15-minute-resolution zone
}

func packDate(d DateBits) uint64 {
	return uint64(uint16(d.Year))<<32 | uint64(uint8(d.Month))<<24 | uint64(uint8(d.Day))<<16 | uint64(uint16(d.Zone))
}

func unpackDate(v uint64) DateBits {
	return DateBits{
		Year:  int16(v >> 32),
		Month: int8(v >> 24),
		Day:   int8(v >> 16),
		Zone:  int16(v),
	}
}

// SetDate stores calendar fields; nanos is the nanosecond-of-day, or -1
// if this date carries no time component.
func (c *Cell) SetDate(d DateBits, nanos int64) {
	c.Reset(KindDate)
	c.num = packDate(d)
	if nanos >= 0 {
		n := nanos
		c.ref = &n
	}
}

func (c *Cell) Date() DateBits { return unpackDate(c.num) }

// Nanos returns the nanosecond-of-day component and whether one is
// present (a bare DATE! with no time-of-day has none).
func (c *Cell) Nanos() (int64, bool) {
	if n, ok := c.ref.(*int64); ok {
		return *n, true
	}
	return 0, false
}

// SetTime stores a bare TIME! value (nanoseconds since midnight, may be
// negative to represent a duration).
func (c *Cell) SetTime(nanos int64) {
	c.Reset(KindTime)
	c.num = uint64(nanos)
}

func (c *Cell) Time() int64 { return int64(c.num) }
