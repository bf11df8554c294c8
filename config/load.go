package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/maseology/mmio"
)

// LoadPFIDB reads a ParFlow input database (.pfidb): the number of entries
// followed by (key length, key, value length, value) line quadruples.
func LoadPFIDB(fp string) (Database, error) {
	fmt.Printf(" loading: %s\n", fp)
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("LoadPFIDB: file '%s' not found", fp)
	}
	lns, err := mmio.ReadTextLines(fp)
	if err != nil {
		return nil, fmt.Errorf("LoadPFIDB: %v", err)
	}
	if len(lns) == 0 {
		return nil, fmt.Errorf("LoadPFIDB: '%s' is empty", fp)
	}
	n, err := strconv.Atoi(strings.TrimSpace(lns[0]))
	if err != nil {
		return nil, fmt.Errorf("LoadPFIDB: invalid entry count '%s' in '%s'", lns[0], fp)
	}
	if len(lns) < 1+4*n {
		return nil, fmt.Errorf("LoadPFIDB: '%s' declares %d entries but holds %d lines", fp, n, len(lns))
	}

	d := make(Database, n)
	for e := 0; e < n; e++ {
		l := 1 + 4*e
		key := strings.TrimSpace(lns[l+1])
		if key == "" {
			return nil, fmt.Errorf("LoadPFIDB: empty key at line %d of '%s'", l+2, fp)
		}
		d[key] = strings.TrimRight(lns[l+3], "\r")
	}
	return d, nil
}

// LoadInstruct reads an mmio instruction file into a Database, multiple
// values of a parameter are joined by a space.
func LoadInstruct(fp string) (Database, error) {
	fmt.Printf(" loading: %s\n", fp)
	if _, ok := mmio.FileExists(fp); !ok {
		return nil, fmt.Errorf("LoadInstruct: file '%s' not found", fp)
	}
	ins := mmio.NewInstruct(fp)
	d := make(Database, len(ins.Param))
	for k, v := range ins.Param {
		d[k] = strings.Join(v, " ")
	}
	return d, nil
}
