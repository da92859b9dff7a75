package amqp

import "testing"

func TestUserRecomputeMessageRoundTrip(t *testing.T) {
	msg := NewUserRecomputeMessage("u1", ReasonIncomeChanged)
	if msg.Timestamp.IsZero() {
		t.Fatal("timestamp must be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := UserRecomputeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.UserID != "u1" || got.Reason != ReasonIncomeChanged {
		t.Fatalf("got %+v", got)
	}
}

func TestUserRecomputeMessageFromJSONMalformed(t *testing.T) {
	if _, err := UserRecomputeMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}
