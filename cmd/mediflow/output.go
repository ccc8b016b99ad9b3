package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

// table 对齐输出列表
func (a *app) table(headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

// fields 键值对输出详情
func (a *app) fields(pairs ...string) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(w, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	return w.Flush()
}

func parseId(s string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("ID[%s]格式错误", s)
	}
	return id, nil
}

func idString(id uint64) string {
	if id == 0 {
		return "-"
	}
	return strconv.FormatUint(id, 10)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
