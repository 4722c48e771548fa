package sp404

import "fmt"

// DecodeError reports a fixed-width record block that could not be read in
// full. It is fatal: no partial records are ever produced.
type DecodeError struct {
	Offset int // byte offset of the block in the source data
	Want   int // declared record size
	Got    int // bytes actually available
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("short record at offset %d: want %d bytes, have %d", e.Offset, e.Want, e.Got)
}

// TruncatedFileError reports a device file smaller than its mandated size.
type TruncatedFileError struct {
	Path string
	Size int64
	Need int64
}

func (e *TruncatedFileError) Error() string {
	return fmt.Sprintf("truncated file %s: %d bytes, need at least %d", e.Path, e.Size, e.Need)
}

// InvalidBankSwitchError reports an event whose bank-switch byte is outside
// the known set {0, 1, 64, 65}. No sample can be resolved for such an
// event, so this is fatal.
type InvalidBankSwitchError struct {
	Pad        uint8
	BankSwitch uint8
}

func (e *InvalidBankSwitchError) Error() string {
	return fmt.Sprintf("invalid bank switch %d on pad byte %d (expected 0, 1, 64 or 65)", e.BankSwitch, e.Pad)
}
