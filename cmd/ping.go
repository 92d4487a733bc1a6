// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/packetd/mongowire/conn/nettransport"
	"github.com/packetd/mongowire/wire"
	"github.com/packetd/mongowire/wire/bsoncodec"
)

var (
	pingAddr    string
	pingLegacy  bool
	pingTimeout time.Duration
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Dial a MongoDB server and submit one hello/isMaster command",
	Example: "# mongowire ping --addr localhost:27017\n" +
		"# mongowire ping --addr localhost:27017 --legacy",
	Run: func(cmd *cobra.Command, args []string) {
		bsoncodec.New()

		c, err := nettransport.Dial("tcp", pingAddr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dial %s: %v\n", pingAddr, err)
			os.Exit(1)
		}
		frame, err := buildPingFrame(pingLegacy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "build command: %v\n", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		defer cancel()

		start := time.Now()
		reply, err := c.Submit(ctx, frame)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "submit: %v\n", err)
			os.Exit(1)
		}

		doc, err := replyDocument(reply.Payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "decode reply: %v\n", err)
			os.Exit(1)
		}

		m, err := bsoncodec.DecodeM(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "decode reply document: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("round-trip: %s\nreply: %v\n", elapsed, m)
	},
}

// buildPingFrame constructs either a modern OP_MSG {hello: 1} or, with
// legacy set, an OP_QUERY against admin.$cmd the way a pre-3.6 driver's
// handshake would.
func buildPingFrame(legacy bool) (*wire.FramedMessage, error) {
	if legacy {
		doc, err := bsoncodec.Codec{}.EncodeDocument(bson.M{"isMaster": 1})
		if err != nil {
			return nil, err
		}
		query := &wire.OpQuery{
			FullCollectionName: "admin.$cmd",
			NumberToReturn:     1,
			Query:              doc,
		}
		return wire.NewFramedMessage(query, nil), nil
	}

	doc, err := bsoncodec.Codec{}.EncodeDocument(bson.M{"hello": 1})
	if err != nil {
		return nil, err
	}
	msg := &wire.OpMsg{
		Sections: []wire.Section{{Kind: wire.SectionBody, Document: doc}},
	}
	return wire.NewFramedMessage(msg, nil), nil
}

// replyDocument extracts the single reply document out of whichever
// payload variant the server answered with.
func replyDocument(payload wire.Payload) (wire.Document, error) {
	switch p := payload.(type) {
	case *wire.OpReply:
		if len(p.Documents) == 0 {
			return nil, fmt.Errorf("OP_REPLY carried no documents")
		}
		return p.Documents[0], nil
	case *wire.OpMsg:
		for _, s := range p.Sections {
			if s.Kind == wire.SectionBody {
				return s.Document, nil
			}
		}
		return nil, fmt.Errorf("OP_MSG carried no body section")
	default:
		return nil, fmt.Errorf("unexpected reply opcode %s", payload.OpCode())
	}
}

func init() {
	pingCmd.Flags().StringVar(&pingAddr, "addr", "localhost:27017", "Server address to dial")
	pingCmd.Flags().BoolVar(&pingLegacy, "legacy", false, "Use a legacy OP_QUERY isMaster handshake instead of OP_MSG hello")
	pingCmd.Flags().DurationVar(&pingTimeout, "timeout", 5*time.Second, "Round-trip timeout")
	rootCmd.AddCommand(pingCmd)
}
