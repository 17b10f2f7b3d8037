// Package ipc is the daemon's unix-socket control plane. zen-ctl sends
// one JSON message per connection; the daemon replies with a Response.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

const SocketPath = "/tmp/zen.sock"

// Control commands understood by the daemon.
const (
	CmdTrigger = "trigger"  // run one listen/respond cycle
	CmdSay     = "say"      // speak Arg verbatim
	CmdAsk     = "ask"      // route Arg through the pipeline
	CmdAskFile = "ask-file" // transcribe the audio file at Arg, then route
	CmdStop    = "stop"     // shut the daemon down
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
	Arg string `json:"arg,omitempty"`
}

type Response struct {
	OK    bool   `json:"ok"`
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// StartServer listens on the control socket and calls handler for each
// message. The handler's response is written back to the client.
func StartServer(handler func(ControlMessage) Response) error {
	os.Remove(SocketPath)

	ln, err := net.Listen("unix", SocketPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return nil
}

func handleConn(conn net.Conn, handler func(ControlMessage) Response) {
	defer conn.Close()

	var msg ControlMessage
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&msg); err != nil {
		return
	}

	resp := handler(msg)
	json.NewEncoder(conn).Encode(resp)
}

// Send delivers one control message and returns the daemon's response.
func Send(msg ControlMessage) (Response, error) {
	conn, err := net.Dial("unix", SocketPath)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return Response{}, err
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, err
	}
	return resp, nil
}
