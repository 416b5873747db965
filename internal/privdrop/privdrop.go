// Package privdrop drops root privileges at startup: chroot into a
// confined directory, then permanently switch to an unprivileged
// user/group, in that order since chroot itself requires root.
package privdrop

import (
	"fmt"
	"os/user"
	"strconv"

	"golang.org/x/sys/unix"
)

// Config names the chroot directory and the user/group to drop to.
// Any empty field skips that step.
type Config struct {
	Chroot string
	User   string
	Group  string
}

// Apply performs the privilege drop described by cfg. Order is fixed:
// chroot first, then setgid, then setuid — reversing the last two
// would leave the process unable to complete setgid once it no longer
// has root.
func Apply(cfg Config) error {
	if cfg.Chroot != "" {
		if err := unix.Chroot(cfg.Chroot); err != nil {
			return fmt.Errorf("privdrop: chroot %q: %w", cfg.Chroot, err)
		}
		if err := unix.Chdir("/"); err != nil {
			return fmt.Errorf("privdrop: chdir after chroot: %w", err)
		}
	}

	if cfg.Group != "" {
		gid, err := lookupGID(cfg.Group)
		if err != nil {
			return err
		}
		if err := unix.Setgid(gid); err != nil {
			return fmt.Errorf("privdrop: setgid %d: %w", gid, err)
		}
	}

	if cfg.User != "" {
		uid, err := lookupUID(cfg.User)
		if err != nil {
			return err
		}
		if err := unix.Setuid(uid); err != nil {
			return fmt.Errorf("privdrop: setuid %d: %w", uid, err)
		}
	}

	return nil
}

func lookupUID(name string) (int, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, fmt.Errorf("privdrop: lookup user %q: %w", name, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return 0, fmt.Errorf("privdrop: user %q has non-numeric uid %q", name, u.Uid)
	}
	return uid, nil
}

func lookupGID(name string) (int, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, fmt.Errorf("privdrop: lookup group %q: %w", name, err)
	}
	gid, err := strconv.Atoi(g.Gid)
	if err != nil {
		return 0, fmt.Errorf("privdrop: group %q has non-numeric gid %q", name, g.Gid)
	}
	return gid, nil
}
