package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/zeromicro/go-zero/core/logx"
)

const usage = `usage:
  torrentforge create [flags] path...
  torrentforge inspect [-base64] file
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	var err error
	switch os.Args[1] {
	case "create":
		err = runCreate(os.Args[2:])
	case "inspect":
		err = runInspect(os.Args[2:], os.Stdout)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err == flag.ErrHelp {
		os.Exit(2)
	}
	if err != nil {
		logx.Errorf("%s failed: %+v", os.Args[1], err)
		logx.Close()
		os.Exit(1)
	}
	logx.Close()
}

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string {
	return fmt.Sprint([]string(*l))
}

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}
