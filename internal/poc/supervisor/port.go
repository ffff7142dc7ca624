package supervisor

import (
	"fmt"
	"net"
)

// checkPortFree briefly binds port to confirm nothing else holds it, then
// releases the listener immediately before the subprocess is spawned. This
// narrows, but does not eliminate, the race between the check and the
// child's own bind — the readiness probe is what actually confirms the
// plugin bound successfully.
func checkPortFree(port int) error {
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return err
	}
	return l.Close()
}
