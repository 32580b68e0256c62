package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/datakeeper/internal/api"
	"github.com/dmitrijs2005/datakeeper/internal/auth"
	"github.com/dmitrijs2005/datakeeper/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// tokenValidity bounds each identity token; a fresh one is signed per call.
const tokenValidity = time.Minute

type GRPCClient struct {
	endpointURL string
	externalID  int64
	secretKey   []byte
	conn        *grpc.ClientConn
	client      api.KeeperClient
}

func withIdentityToken(ctx context.Context, token string) context.Context {
	md, ok := metadata.FromOutgoingContext(ctx)
	if ok {
		md = md.Copy()
	} else {
		md = metadata.MD{}
	}
	md.Set(common.IdentityTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) sign(ctx context.Context) (context.Context, error) {
	token, err := auth.GenerateToken(s.externalID, s.secretKey, tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("sign identity: %w", err)
	}
	return withIdentityToken(ctx, token), nil
}

func (s *GRPCClient) identityInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	ctx, err := s.sign(ctx)
	if err != nil {
		return err
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) identityStreamInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	ctx, err := s.sign(ctx)
	if err != nil {
		return nil, err
	}
	return streamer(ctx, desc, cc, method, opts...)
}

// NewGRPCClient creates a client acting as externalID. dialOpts are appended
// after the defaults (insecure transport, identity interceptors).
func NewGRPCClient(endpointURL string, externalID int64, secretKey string, dialOpts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, externalID: externalID, secretKey: []byte(secretKey)}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.identityInterceptor),
		grpc.WithStreamInterceptor(c.identityStreamInterceptor),
	}, dialOpts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewKeeperClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) (string, error) {
	resp, err := s.client.Register(ctx, &api.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Login(ctx context.Context, username, password string) (string, error) {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Logout(ctx context.Context) (string, error) {
	resp, err := s.client.Logout(ctx, &api.LogoutRequest{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Store(ctx context.Context, key, value string) (string, error) {
	resp, err := s.client.Store(ctx, &api.StoreRequest{Key: key, Value: value})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Get(ctx context.Context, key string) (string, error) {
	resp, err := s.client.Get(ctx, &api.GetRequest{Key: key})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Help(ctx context.Context) (string, error) {
	resp, err := s.client.Help(ctx, &api.HelpRequest{})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) SetDirectMessages(ctx context.Context, enabled bool) (string, error) {
	resp, err := s.client.SetDirectMessages(ctx, &api.SetDirectMessagesRequest{Enabled: enabled})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) Inbox(ctx context.Context, handle func(api.DirectMessage)) error {
	stream, err := s.client.Inbox(ctx, &api.InboxRequest{})
	if err != nil {
		return s.mapError(err)
	}
	for {
		m, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return s.mapError(err)
		}
		handle(*m)
	}
}

func (s *GRPCClient) mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unavailable:
		return ErrUnavailable
	case codes.Unknown, codes.Unimplemented, codes.Canceled:
		return fmt.Errorf("rpc error: %w", err)
	default:
		return &ReplyError{Code: st.Code(), Message: st.Message()}
	}
}
