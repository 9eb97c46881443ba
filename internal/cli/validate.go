// internal/cli/validate.go
package cli

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	vOnce sync.Once
	vInst *validator.Validate
)

// validate returns the singleton validator; field names in errors are the
// long flag names.
func validate() *validator.Validate {
	vOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			if name := fld.Tag.Get("flag"); name != "" {
				return name
			}
			return fld.Name
		})
		vInst = v
	})
	return vInst
}

// Validate applies the CLI invariants and reports the first violation in
// flag terms (e.g. "--window must be ≥ 1").
func Validate(o Options) error {
	stdin := 0
	for _, in := range o.Inputs {
		if in == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errStdinTwice
	}

	err := validate().Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	name := fe.Field()
	switch {
	case name == "input":
		return errors.New("at least one input FASTA is required (-i or positional)")
	case strings.HasPrefix(name, "input["):
		return errors.New("input paths must not be empty")
	case fe.Tag() == "min":
		return fmt.Errorf("--%s must be ≥ %s", name, fe.Param())
	case fe.Tag() == "oneof":
		return fmt.Errorf("invalid --%s %q (want one of: %s)", name, fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Errorf("invalid --%s: %s", name, fe.Tag())
}
