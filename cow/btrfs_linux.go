// Copyright (C) 2024 Deneb Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cow

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// btrfs super magic, from linux/magic.h.
const btrfsSuperMagic = 0x9123683e

func btrfsFilesystem(path string) error {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return fmt.Errorf("statfs %s: %v: %w", path, err, ErrNotCapable)
	}
	if uint64(stat.Type) != uint64(btrfsSuperMagic) {
		return fmt.Errorf("%s: %w", path, ErrNotCapable)
	}
	return nil
}
