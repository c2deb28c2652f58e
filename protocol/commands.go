package protocol

import (
	"fmt"
	"strconv"
	"strings"
)

// Command is the CMD_ID header field.
//
// The codec treats commands as opaque codes; the named constants only label
// codes for display and for the document adapter.
type Command uint16

// Known command codes.
const (
	// CmdError is the code of error response frames
	CmdError Command = 0x0000

	// CmdBillBufCfgGetEx reads the extended bill buffer configuration
	CmdBillBufCfgGetEx Command = 0x0153

	// CmdSaleRecGet reads a sale record
	CmdSaleRecGet Command = 0x01C3

	// CmdCashRegStatusGet reads the cash register status
	CmdCashRegStatusGet Command = 0x01F5
)

var commandNames = map[Command]string{
	CmdError:            "ERROR",
	CmdBillBufCfgGetEx:  "BILLBUFCFGGETEX",
	CmdSaleRecGet:       "SALERECGET",
	CmdCashRegStatusGet: "CASHREGSTATUSGET",
}

// Name returns the command label and whether the code has one.
func (c Command) Name() (string, bool) {
	name, ok := commandNames[c]
	return name, ok
}

// String returns the command label, or the decimal code for unlabeled commands.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return strconv.FormatUint(uint64(c), 10)
}

// ParseCommand parses a command label or a decimal code.
func ParseCommand(s string) (Command, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 16); err == nil {
		return Command(n), nil
	}

	upper := strings.ToUpper(s)
	for code, name := range commandNames {
		if name == upper {
			return code, nil
		}
	}
	return 0, fmt.Errorf("unknown command %q", s)
}
