package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	msgInternal          = "An internal error occurred. Please try again later."
	msgAlreadyRegistered = "Username or account already registered."
	msgRegistrationError = "An error occurred during registration."
	msgMissingCreds      = "Username and password are required."
	msgInvalidCreds      = "Invalid username or password."
	msgLoggedOut         = "You have been logged out."
	msgNotLoggedIn       = "You are not logged in."
	msgStoreNeedsLogin   = "You must be logged in to store data."
	msgGetNeedsLogin     = "You must be logged in to retrieve data."
	msgUserNotFound      = "An error occurred. User not found."
	msgKeyRequired       = "A key is required."
	msgSentToDM          = "Your data has been sent to your direct messages."
	msgDMRefused         = "I couldn't send you a direct message. Please check your privacy settings."
)

var kindCodes = map[common.Kind]codes.Code{
	common.KindConflict:        codes.AlreadyExists,
	common.KindAuthFailure:     codes.Unauthenticated,
	common.KindNotFound:        codes.NotFound,
	common.KindDeliveryFailure: codes.FailedPrecondition,
	common.KindInvalidInput:    codes.InvalidArgument,
}

// statusError converts a service error into a status carrying msg. Internal
// errors are logged and replaced by a generic message.
func (s *GRPCServer) statusError(ctx context.Context, err error, msg string) error {
	code, ok := kindCodes[common.KindOf(err)]
	if !ok {
		s.logger.Error(ctx, "command failed", "request_id", requestIDFromContext(ctx), "error", err.Error())
		return status.Error(codes.Internal, msgInternal)
	}
	return status.Error(code, msg)
}

func (s *GRPCServer) caller(ctx context.Context) (int64, error) {
	id, ok := externalIDFromContext(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "missing identity token")
	}
	return id, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.Reply, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.Register(ctx, id, req.Username, req.Password)
	if err != nil {
		msg := msgRegistrationError
		switch {
		case errors.Is(err, common.ErrAlreadyRegistered):
			msg = msgAlreadyRegistered
		case errors.Is(err, common.ErrInvalidInput):
			msg = msgMissingCreds
		}
		return nil, s.statusError(ctx, err, msg)
	}

	s.logger.Info(ctx, "Registered", "username", a.UserName, "account_id", a.ID)
	return &api.Reply{Message: fmt.Sprintf("User '%s' registered successfully!", a.UserName)}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.Reply, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.accounts.Login(ctx, id, req.Username, req.Password)
	if err != nil {
		return nil, s.statusError(ctx, err, msgInvalidCreds)
	}

	return &api.Reply{Message: fmt.Sprintf("Welcome back, %s! You are now logged in.", a.UserName)}, nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *api.LogoutRequest) (*api.Reply, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Logout(ctx, id); err != nil {
		return nil, s.statusError(ctx, err, msgNotLoggedIn)
	}
	return &api.Reply{Message: msgLoggedOut}, nil
}

func (s *GRPCServer) Store(ctx context.Context, req *api.StoreRequest) (*api.StoreReply, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.data.Store(ctx, id, req.Key, req.Value)
	if err != nil {
		return nil, s.statusError(ctx, err, dataErrorMessage(err, msgStoreNeedsLogin, req.Key))
	}

	if res.Created {
		return &api.StoreReply{Message: fmt.Sprintf("Data stored with key '%s'.", req.Key), Created: true}, nil
	}
	return &api.StoreReply{Message: fmt.Sprintf("Data for key '%s' updated.", req.Key)}, nil
}

func (s *GRPCServer) Get(ctx context.Context, req *api.GetRequest) (*api.Reply, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.data.Get(ctx, id, req.Key); err != nil {
		return nil, s.statusError(ctx, err, dataErrorMessage(err, msgGetNeedsLogin, req.Key))
	}
	return &api.Reply{Message: msgSentToDM}, nil
}

func dataErrorMessage(err error, needsLogin, key string) string {
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return needsLogin
	case errors.Is(err, common.ErrAccountNotFound):
		return msgUserNotFound
	case errors.Is(err, common.ErrNoSuchKey):
		return fmt.Sprintf("No data found for key '%s'.", key)
	case errors.Is(err, common.ErrDeliveryRefused):
		return msgDMRefused
	case errors.Is(err, common.ErrInvalidInput):
		return msgKeyRequired
	}
	return msgInternal
}

func (s *GRPCServer) Help(context.Context, *api.HelpRequest) (*api.Reply, error) {
	return &api.Reply{Message: api.HelpText}, nil
}

func (s *GRPCServer) SetDirectMessages(ctx context.Context, req *api.SetDirectMessagesRequest) (*api.Reply, error) {
	id, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	s.inboxes.SetDirectMessages(id, req.Enabled)
	if req.Enabled {
		return &api.Reply{Message: "Direct messages enabled."}, nil
	}
	return &api.Reply{Message: "Direct messages disabled."}, nil
}

// Inbox streams the caller's private messages until the client goes away or
// the server shuts down.
func (s *GRPCServer) Inbox(_ *api.InboxRequest, stream grpc.ServerStreamingServer[api.DirectMessage]) error {
	ctx := stream.Context()
	id, err := s.caller(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	messages := s.inboxes.Subscribe(ctx, id)

	s.logger.Debug(ctx, "inbox opened", "external_id", id)
	for {
		select {
		case <-s.stopping:
			return status.Error(codes.Unavailable, "server is shutting down")
		case m, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			if err := stream.Send(&api.DirectMessage{Text: m.Text, SentAt: m.SentAt}); err != nil {
				return err
			}
		}
	}
}
