package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/money/internal/record"
)

type Bank string

const (
	BankCGD Bank = "cgd"
)

var (
	ErrUnknownBank      = errors.New("unknown bank")
	ErrInvalidStatement = errors.New("invalid statement")
)

// Parser turns a bank statement into record params. Owner, account and
// category are filled in by the Service.
type Parser interface {
	Parse(r io.Reader) ([]record.CreateParams, error)
}
