package bus

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/intelliplan-admin/internal/platform/logger"
	"github.com/yungbote/intelliplan-admin/internal/realtime"
)

var sentAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestEnvelopeTypesPayloadByEvent(t *testing.T) {
	uid := uuid.New()
	sid := uuid.New()
	cases := []struct {
		msg  realtime.SSEMessage
		want any
	}{
		{realtime.SnapshotMessage(4, 12, sentAt), realtime.SnapshotPayload{Generation: 4, Users: 12, BuiltAt: sentAt}},
		{realtime.CollectionMessage("tasks", &uid), realtime.CollectionPayload{Collection: "tasks", UserID: &uid}},
		{realtime.SessionEndedMessage(sid), map[string]string{"session_id": sid.String()}},
	}
	for _, tc := range cases {
		raw, err := encode("node-a", tc.msg, sentAt)
		if err != nil {
			t.Fatalf("encode %s: %v", tc.msg.Event, err)
		}
		env, got, err := decode(string(raw))
		if err != nil {
			t.Fatalf("decode %s: %v", tc.msg.Event, err)
		}
		if env.Origin != "node-a" || !env.SentAt.Equal(sentAt) || env.Version != envelopeVersion {
			t.Fatalf("envelope %s: got=%+v", tc.msg.Event, env)
		}
		if got.Channel != tc.msg.Channel || got.Event != tc.msg.Event {
			t.Fatalf("route %s: want=%s/%s got=%s/%s", tc.msg.Event, tc.msg.Channel, tc.msg.Event, got.Channel, got.Event)
		}
		switch want := tc.want.(type) {
		case realtime.CollectionPayload:
			p, ok := got.Data.(realtime.CollectionPayload)
			if !ok || p.Collection != want.Collection || p.UserID == nil || *p.UserID != *want.UserID {
				t.Fatalf("collection payload: want=%+v got=%#v", want, got.Data)
			}
		case realtime.SnapshotPayload:
			p, ok := got.Data.(realtime.SnapshotPayload)
			if !ok || p.Generation != want.Generation || p.Users != want.Users || !p.BuiltAt.Equal(want.BuiltAt) {
				t.Fatalf("snapshot payload: want=%+v got=%#v", want, got.Data)
			}
		case map[string]string:
			p, ok := got.Data.(map[string]string)
			if !ok || p["session_id"] != want["session_id"] {
				t.Fatalf("session payload: want=%v got=%#v", want, got.Data)
			}
		}
	}
}

func TestEncodeRejectsMisroutedEvents(t *testing.T) {
	bad := []realtime.SSEMessage{
		{Channel: "session:x", Event: realtime.SSEEventSnapshotUpdated},
		{Channel: realtime.ChannelDashboard, Event: realtime.SSEEventSessionEnded},
		{Channel: realtime.ChannelDashboard, Event: "dashboard.unknown"},
		{Channel: realtime.ChannelDashboard},
	}
	for _, msg := range bad {
		if _, err := encode("node-a", msg, sentAt); err == nil {
			t.Fatalf("encode(%+v): want error", msg)
		}
	}
}

func TestDecodeRejectsBadEnvelopes(t *testing.T) {
	for _, bad := range []string{
		`not json`,
		`{"v":2,"channel":"dashboard","event":"dashboard.snapshot"}`,
		`{"v":1,"channel":"dashboard"}`,
		`{"v":1,"channel":"session:abc","event":"dashboard.collection","data":{"collection":"tasks"}}`,
		`{"v":1,"channel":"dashboard","event":"dashboard.collection","data":{}}`,
		`{"v":1,"channel":"dashboard","event":"dashboard.snapshot","data":"oops"}`,
	} {
		if _, _, err := decode(bad); err == nil {
			t.Fatalf("decode(%q): want error", bad)
		}
	}
}

func TestForwardSkipsBadPayloadsAndStopsOnClose(t *testing.T) {
	tr := &redisTransport{log: logger.Nop(), origin: "node-b", now: func() time.Time { return sentAt }}
	good, err := encode("node-a", realtime.CollectionMessage("goals", nil), sentAt)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	in := make(chan *goredis.Message, 3)
	in <- &goredis.Message{Payload: `{"v":1,"channel":"dashboard","event":"nope"}`}
	in <- &goredis.Message{Payload: string(good)}
	close(in)

	var got []realtime.SSEMessage
	closed := false
	tr.forward(context.Background(), in, func(m realtime.SSEMessage) { got = append(got, m) }, func() error {
		closed = true
		return nil
	})

	if len(got) != 1 || got[0].Event != realtime.SSEEventCollectionChanged {
		t.Fatalf("forwarded: want=1 collection event got=%+v", got)
	}
	if p, ok := got[0].Data.(realtime.CollectionPayload); !ok || p.Collection != "goals" || p.UserID != nil {
		t.Fatalf("forwarded payload: got=%#v", got[0].Data)
	}
	if !closed {
		t.Fatalf("subscription not closed after channel end")
	}
}

func TestNewRedisBusValidatesArgs(t *testing.T) {
	if _, err := NewRedisBus(nil, "localhost:6379", ""); err == nil {
		t.Fatalf("nil logger: want error")
	}
	if _, err := NewRedisBus(logger.Nop(), "  ", ""); err == nil {
		t.Fatalf("blank address: want error")
	}
}
