package toml

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/naoina/toml"
)

// Settings make TOML keys use the same names as Go struct fields and reject
// keys without a field.
var Settings = toml.Config{
	NormFieldName: func(rt reflect.Type, key string) string {
		return key
	},
	FieldToKey: func(rt reflect.Type, field string) string {
		return field
	},
	MissingField: func(rt reflect.Type, field string) error {
		return fmt.Errorf("field '%s' is not defined in %s", field, rt.String())
	},
}

// Decode reads TOML from r into v. name is used in error messages.
func Decode(name string, r io.Reader, v interface{}) error {
	err := Settings.NewDecoder(bufio.NewReader(r)).Decode(v)
	// Add file name to errors that have a line number.
	if _, ok := err.(*toml.LineError); ok {
		err = fmt.Errorf("%s, %v", name, err)
	}
	return err
}

// DecodeFile reads the TOML file into v.
func DecodeFile(file string, v interface{}) error {
	f, err := os.Open(file)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s: %w", file, ErrorFileNotExists)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	return Decode(file, f, v)
}

// Encode returns the TOML representation of v.
func Encode(v interface{}) ([]byte, error) {
	return Settings.Marshal(v)
}
