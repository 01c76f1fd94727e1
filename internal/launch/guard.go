package launch

import (
	"fmt"
	"os"
	"reflect"

	"drawbridge/pkg/logging"
	"drawbridge/pkg/pool"
)

// EnvPoolFactory names the worker factory the common pool is required
// to use. Packaged distributions set it so a mispatched build that
// swapped the factory is caught at boot instead of surfacing later as
// workers dying with the first panicking task.
const EnvPoolFactory = "DRAWBRIDGE_POOL_FACTORY"

var osGetenv = os.Getenv

// EnsurePoolFactoryCorrect verifies the common pool was built with the
// worker factory named by DRAWBRIDGE_POOL_FACTORY. When the variable is
// unset the check is skipped, so embedded and test processes that never
// configure it boot normally. A mismatch is a packaging error, not a
// user error, and panics after logging what was found.
//
// Call this before anything can touch pool.Common: the comparison reads
// the factory of the live pool, and the first use pins it.
func EnsurePoolFactoryCorrect() {
	expected := osGetenv(EnvPoolFactory)
	if expected == "" {
		return
	}
	actual := reflect.TypeOf(pool.Common().Factory()).String()
	if actual != expected {
		logging.Error("Launch", nil, "Common pool worker factory is %s, but %s requires %s", actual, EnvPoolFactory, expected)
		panic(fmt.Sprintf("common pool worker factory is %s, expected %s", actual, expected))
	}
}
