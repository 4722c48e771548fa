package sp404

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// trimHeaderBytes is the fixed header bias on the stored trim markers;
// trimBytesPerFrame is the sample word width they are expressed in.
const (
	trimHeaderBytes   = 512
	trimBytesPerFrame = 2
)

// PadNumberToFilename maps a logical pad number (1..120) to its sample
// filename on the card, e.g. 13 -> "B0000001.WAV". format is the sample
// container extension without the dot (WAV or AIFF).
func PadNumberToFilename(pad int, format string) string {
	n := pad - 1
	bank := rune('A' + n/PadsPerBank)
	inBank := n%PadsPerBank + 1
	return fmt.Sprintf("%c%07d.%s", bank, inBank, strings.ToUpper(format))
}

// PatternFileID maps a pattern name like "A1" or "b11" to the numeric id
// used in its storage filename.
func PatternFileID(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("pattern name %q too short (want e.g. \"A1\")", name)
	}
	bank := strings.ToUpper(name)[0]
	if bank < 'A' || bank >= 'A'+TotalBanks {
		return 0, fmt.Errorf("pattern name %q: bank letter out of range A..%c", name, 'A'+TotalBanks-1)
	}
	num, err := strconv.Atoi(name[1:])
	if err != nil {
		return 0, fmt.Errorf("pattern name %q: %w", name, err)
	}
	return int(bank-'A')*PadsPerBank + num%PadsPerBank, nil
}

// PatternNameToFilename maps a pattern name to its storage filename,
// e.g. "B11" -> "PTN00023.BIN".
func PatternNameToFilename(name string) (string, error) {
	id, err := PatternFileID(name)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("PTN%05d.BIN", id), nil
}

// PatternIDToName is the inverse of PatternFileID. Pattern number 12 of a
// bank wraps to id offset 0, so id 0 is "A12", id 12 is "B12" and so on.
func PatternIDToName(id int) string {
	bank := rune('A' + id/PadsPerBank)
	num := id % PadsPerBank
	if num == 0 {
		num = PadsPerBank
	}
	return fmt.Sprintf("%c%d", bank, num)
}

// PatternFilenameToName recovers the pattern name from a storage filename
// like "PTN00023.BIN" (any directory prefix is ignored).
func PatternFilenameToName(filename string) (string, error) {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	upper := strings.ToUpper(base)
	if !strings.HasPrefix(upper, "PTN") || !strings.HasSuffix(upper, ".BIN") {
		return "", fmt.Errorf("%q is not a pattern filename (want PTN#####.BIN)", filename)
	}
	id, err := strconv.Atoi(upper[3 : len(upper)-4])
	if err != nil {
		return "", fmt.Errorf("%q is not a pattern filename: %w", filename, err)
	}
	if id < 0 || id >= TotalBanks*PadsPerBank {
		return "", fmt.Errorf("pattern id %d out of range 0..%d", id, TotalBanks*PadsPerBank-1)
	}
	return PatternIDToName(id), nil
}

// SampleIndex resolves an event's (pad, bank switch) pair to the
// logical sample number 1..120. Pad references are stored with a 46 offset;
// bank-switch values 1 and 65 select the upper five banks.
func (e EventRecord) SampleIndex() (int, error) {
	var idx int
	switch e.BankSwitch {
	case 0, 64:
		idx = int(e.Pad) - 46
	case 1, 65:
		idx = int(e.Pad) - 46 + PadsPerBank*5
	default:
		return 0, &InvalidBankSwitchError{Pad: e.Pad, BankSwitch: e.BankSwitch}
	}
	if idx < 1 || idx > TotalPads {
		return 0, fmt.Errorf("pad byte %d (bank switch %d) resolves to sample %d, outside 1..%d",
			e.Pad, e.BankSwitch, idx, TotalPads)
	}
	return idx, nil
}

// SampleFilename resolves the event directly to its sample filename.
func (e EventRecord) SampleFilename(format string) (string, error) {
	idx, err := e.SampleIndex()
	if err != nil {
		return "", err
	}
	return PadNumberToFilename(idx, format), nil
}

// TrimFrames converts a pad's stored trim markers to frame offsets into its
// sample file. The device stores the markers as byte offsets including a
// 512-byte header, two bytes per sample word. The result is a half-open
// frame range [start, end).
func TrimFrames(p PadRecord) (start, end int64, err error) {
	if p.UserStart > p.UserEnd {
		return 0, 0, fmt.Errorf("trim markers reversed: user start %d > user end %d", p.UserStart, p.UserEnd)
	}
	if p.UserStart < trimHeaderBytes {
		return 0, 0, fmt.Errorf("trim start %d inside the %d-byte sample header", p.UserStart, trimHeaderBytes)
	}
	if p.UserStart%2 != 0 || p.UserEnd%2 != 0 {
		return 0, 0, fmt.Errorf("trim markers not 2-byte aligned: start %d, end %d", p.UserStart, p.UserEnd)
	}
	start = int64(p.UserStart-trimHeaderBytes) / trimBytesPerFrame
	end = int64(p.UserEnd-trimHeaderBytes) / trimBytesPerFrame
	return start, end, nil
}
