// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package stream implements the simulated typing effect for bot replies.
//
// A complete reply is split into words and revealed one word at a time into
// a single message. Playback is a pure cursor: it produces frames, and the
// caller decides when to apply them. In the TUI each frame is scheduled with
// tea.Tick using a Delay strategy, so the update loop stays the only place
// that mutates the conversation.
//
//	pb := stream.NewPlayback(msgID, reply)
//	for {
//	    f := pb.Next()
//	    conv.Update(f.MessageID, f.Content, f.Streaming)
//	    if f.Done {
//	        break
//	    }
//	    time.Sleep(delay())
//	}
package stream
