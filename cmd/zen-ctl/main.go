package main

import (
	"fmt"
	"os"
	"strings"

	"zen/internal/ipc"
)

func usage() {
	fmt.Println("usage: zen-ctl <trigger|say|ask|ask-file|stop> [arg...]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cmd := os.Args[1]
	arg := strings.Join(os.Args[2:], " ")

	switch cmd {
	case ipc.CmdTrigger, ipc.CmdStop:
	case ipc.CmdSay, ipc.CmdAsk, ipc.CmdAskFile:
		if arg == "" {
			usage()
		}
	default:
		usage()
	}

	resp, err := ipc.Send(ipc.ControlMessage{Cmd: cmd, Arg: arg})
	if err != nil {
		fmt.Println("zen-daemon not running:", err)
		os.Exit(1)
	}
	if resp.Error != "" {
		fmt.Println("error:", resp.Error)
		os.Exit(1)
	}
	if resp.Reply != "" {
		fmt.Println(resp.Reply)
	}
}
