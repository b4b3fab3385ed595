package root

import (
	"fmt"
	"strings"
)

type missingHandlersError []string

func (e missingHandlersError) Error() string {
	return fmt.Sprintf("no handler registered for: %s", strings.Join(e, ", "))
}
