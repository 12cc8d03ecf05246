package cerr

import (
	"errors"
	"fmt"
)

var (
	ErrValidateConnectorConf = errors.New("validate connector config")
	ErrNotSupported          = errors.New("not supported")
)

func ValidationErr(text string) error {
	return fmt.Errorf(text+": %w", ErrValidateConnectorConf)
}
