package replication

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go-otta/internal/domain"
	"go-otta/internal/events"
	"go-otta/internal/replication/mock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

var sampleLog = domain.TimeLog{
	ID:       "log-1",
	UserID:   "u1",
	UserName: "Alex Rivera",
	Type:     domain.LogTypeOfficeWork,
	CheckIn:  time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC),
	Status:   domain.LogStatusActive,
	Date:     "2024-03-04",
}

func TestNewLogEnvelope(t *testing.T) {
	env, err := NewLogEnvelope(sampleLog, "", time.Now())
	require.NoError(t, err)
	assert.Equal(t, events.ActionLogAttendance, env.Action)
	assert.Equal(t, "u1", env.Key)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "unknown@otta.com", data["email"])
	assert.Equal(t, "log-1", data["id"])
	assert.Equal(t, "Alex Rivera", data["userName"])

	body, err := json.Marshal(env)
	require.NoError(t, err)
	assert.NotContains(t, string(body), "Key")
	assert.Contains(t, string(body), `"action":"LOG_ATTENDANCE"`)
}

func TestNewUserEnvelope(t *testing.T) {
	env, err := NewUserEnvelope(domain.User{ID: "u9", Name: "Kim Lee", Email: "kim@otta.com", Role: domain.RoleHR}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, events.ActionAddUser, env.Action)
	assert.JSONEq(t, `{"id":"u9","name":"Kim Lee","email":"kim@otta.com","role":"HR","department":"","avatar":""}`, string(env.Data))
}

func TestHTTPSink_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	env, _ := NewLogEnvelope(sampleLog, "alex.rivera@otta.com", time.Now())
	require.NoError(t, NewHTTPSink(srv.URL, time.Second).Send(context.Background(), env))
	assert.Equal(t, "LOG_ATTENDANCE", got["action"])
	assert.Equal(t, "alex.rivera@otta.com", got["data"].(map[string]any)["email"])
}

func TestHTTPSink_Send_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "script error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := NewHTTPSink(srv.URL, time.Second).Send(context.Background(), events.ReplicationEnvelope{Action: "ADD_USER"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestDispatcher_SendsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock.NewMockSink(ctrl)

	var mu sync.Mutex
	var actions []string
	sink.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, env events.ReplicationEnvelope) error {
			mu.Lock()
			defer mu.Unlock()
			actions = append(actions, env.Action)
			return nil
		}).Times(2)

	d := NewDispatcher(sink, 4, time.Second, zap.NewNop())
	go d.Run(context.Background())

	d.EnqueueUser(domain.User{ID: "u9", Name: "Kim Lee"})
	d.EnqueueLog(sampleLog, "alex.rivera@otta.com")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.Equal(t, []string{events.ActionAddUser, events.ActionLogAttendance}, actions)
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock.NewMockSink(ctrl)
	sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("sheet offline")).Times(1)

	d := NewDispatcher(sink, 4, time.Second, zap.NewNop())
	go d.Run(context.Background())
	d.EnqueueLog(sampleLog, "")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, d.Close(ctx))
}

func TestDispatcher_DropsWhenFullOrClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := mock.NewMockSink(ctrl)
	sink.EXPECT().Send(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	d := NewDispatcher(sink, 1, time.Second, zap.NewNop())
	d.EnqueueLog(sampleLog, "")
	d.EnqueueLog(sampleLog, "")
	assert.Len(t, d.queue, 1)

	go d.Run(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	assert.NotPanics(t, func() { d.EnqueueLog(sampleLog, "") })
}

func TestDispatcher_NilSink(t *testing.T) {
	d := NewDispatcher(nil, 1, time.Second, zap.NewNop())
	go d.Run(context.Background())

	d.EnqueueLog(sampleLog, "")
	d.EnqueueUser(domain.User{ID: "u1"})
	assert.Empty(t, d.queue)
	assert.NoError(t, d.Close(context.Background()))
}
