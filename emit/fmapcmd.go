package emit

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/kballard/go-shellquote"
)

// RunFileMapCmd splits cmdline as a shell would (kballard/go-shellquote,
// rather than shelling out through /bin/sh -c) and runs the resulting
// argv, returning its stdout for ParseFileMap to read. This is how
// -fmap-cmd generates the "id\tfilename" mapping on demand instead of
// requiring a pre-written file.
func RunFileMapCmd(cmdline string) ([]byte, error) {
	args, err := shellquote.Split(cmdline)
	if err != nil {
		return nil, fmt.Errorf("parsing -fmap-cmd: %w", err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("-fmap-cmd is empty")
	}

	cmd := exec.Command(args[0], args[1:]...)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running -fmap-cmd %q: %w", cmdline, err)
	}
	return out.Bytes(), nil
}
