package request

import (
	"errors"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

// The standard regexp package has no lookahead, which these patterns need.
var (
	passwordPattern   = regexp2.MustCompile(`^(?=.*[A-Za-z])(?=.*\d).{8,}$`, regexp2.None)
	personNamePattern = regexp2.MustCompile(`^(?=.{1,80}$)\p{L}+(?:[ '\-]\p{L}+)*$`, regexp2.None)
	phonePattern      = regexp2.MustCompile(`^(?=(?:\D*\d){6,15}\D*$)\+?[\d .\-()]+$`, regexp2.None)
)

// matches adapts a regexp2 pattern to an ozzo rule. Empty values pass so the
// rule composes with validation.Required.
func matches(re *regexp2.Regexp, failure error) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		ok, err := re.MatchString(s)
		if err != nil {
			return errors.New("pattern evaluation timed out")
		}
		if !ok {
			return failure
		}
		return nil
	})
}
