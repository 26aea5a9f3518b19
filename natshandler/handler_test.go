package natshandler

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/nats-io/nats.go"

	"xcoderunner/model"
	appErr "xcoderunner/pkg/errors"
)

type fakeExecutor struct {
	resp model.ExecutionResponse
	err  error
	got  model.ExecutionRequest
}

func (f *fakeExecutor) Execute(_ context.Context, req model.ExecutionRequest) (model.ExecutionResponse, error) {
	f.got = req
	return f.resp, f.err
}

type published struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	msgs []published
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	p.msgs = append(p.msgs, published{subject: subject, data: data})
	return nil
}

func TestHandleCompilerRequestReplies(t *testing.T) {
	svc := &fakeExecutor{resp: model.Success([]string{"hello"})}
	pub := &fakePublisher{}
	h := NewHandler(svc, pub, 0, nil)

	body, _ := json.Marshal(model.ExecutionRequest{Code: "print('hello')", Language: "Python", Inputs: []string{""}, Key: "k"})
	h.HandleCompilerRequest(&nats.Msg{Subject: "compiler.execute.request", Reply: "_INBOX.1", Data: body})

	if len(pub.msgs) != 1 || pub.msgs[0].subject != "_INBOX.1" {
		t.Fatalf("unexpected publishes %+v", pub.msgs)
	}
	var resp model.ExecutionResponse
	if err := json.Unmarshal(pub.msgs[0].data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "success" || resp.Outputs[0] != "hello" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if svc.got.Language != "Python" {
		t.Fatalf("request not decoded: %+v", svc.got)
	}
}

func TestHandleCompilerRequestError(t *testing.T) {
	pub := &fakePublisher{}
	h := NewHandler(&fakeExecutor{err: appErr.ForbiddenError("Invalid secret key")}, pub, 0, nil)

	h.HandleCompilerRequest(&nats.Msg{Reply: "_INBOX.2", Data: []byte(`{"code":"x","language":"C","inputs":["1"],"key":"bad"}`)})

	var resp model.ErrorResponse
	if err := json.Unmarshal(pub.msgs[0].data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "error" || resp.Message != "Invalid secret key" || resp.Code != int(appErr.Forbidden) {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestHandleCompilerRequestMalformed(t *testing.T) {
	pub := &fakePublisher{}
	svc := &fakeExecutor{}
	h := NewHandler(svc, pub, 0, nil)

	h.HandleCompilerRequest(&nats.Msg{Reply: "_INBOX.3", Data: []byte("not json")})
	if len(pub.msgs) != 1 {
		t.Fatalf("expected an error reply")
	}
	if svc.got.Code != "" {
		t.Fatalf("service must not be called")
	}
}

func TestHandleCompilerRequestWithoutReply(t *testing.T) {
	pub := &fakePublisher{}
	h := NewHandler(&fakeExecutor{resp: model.Success(nil)}, pub, 0, nil)
	h.HandleCompilerRequest(&nats.Msg{Data: []byte(`{}`)})
	if len(pub.msgs) != 0 {
		t.Fatalf("nothing should be published without a reply subject")
	}
}
