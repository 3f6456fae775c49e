package port

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/mirzahilmi/stacy/internal/common/config"
	"github.com/mirzahilmi/stacy/internal/common/constant"
	_errors "github.com/mirzahilmi/stacy/internal/common/errors"
	"github.com/rs/zerolog/log"
)

// Client issues one request per call against the plant server. It holds no
// mutable state, so a single instance may be shared between goroutines.
type Client struct {
	baseUrl        string
	token          string
	identityHeader string
	success        map[string][]int
	http           *http.Client
	metrics        *instruments
}

type ClientOption func(*Client)

func WithHttpClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.http = httpClient
	}
}

func NewClient(cfg config.Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	metrics, err := newInstruments()
	if err != nil {
		return nil, err
	}

	identityHeader := constant.HEADER_UID
	if cfg.Identity == constant.IDENTITY_USER_ID {
		identityHeader = constant.HEADER_USER_ID
	}

	c := &Client{
		baseUrl:        strings.TrimRight(cfg.BaseUrl, "/"),
		token:          cfg.Token,
		identityHeader: identityHeader,
		success: map[string][]int{
			constant.OP_CREATE_USER:       cfg.SuccessCodes(constant.OP_CREATE_USER, http.StatusCreated),
			constant.OP_CREATE_PLANT:      cfg.SuccessCodes(constant.OP_CREATE_PLANT, http.StatusCreated),
			constant.OP_CREATE_PLANT_DATA: cfg.SuccessCodes(constant.OP_CREATE_PLANT_DATA, http.StatusCreated, http.StatusOK),
			constant.OP_GET_PLANTS:        cfg.SuccessCodes(constant.OP_GET_PLANTS, http.StatusOK),
			constant.OP_CREATE_DEVICE:     cfg.SuccessCodes(constant.OP_CREATE_DEVICE, http.StatusCreated, http.StatusOK),
			constant.OP_SIGNUP:            cfg.SuccessCodes(constant.OP_SIGNUP, http.StatusCreated),
			constant.OP_LOGIN:             cfg.SuccessCodes(constant.OP_LOGIN, http.StatusOK),
			constant.OP_REFRESH:           cfg.SuccessCodes(constant.OP_REFRESH, http.StatusOK),
		},
		http:    &http.Client{Timeout: cfg.HttpTimeout()},
		metrics: metrics,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// WithToken returns a copy of c that authenticates with token, typically
// one obtained from Login or RefreshToken.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

type request struct {
	operation string
	method    string
	path      string
	body      any
	auth      bool
	deviceId  string
	uid       string
}

func (c *Client) do(ctx context.Context, r request) (Result, http.Header, error) {
	var payload io.Reader
	if r.body != nil {
		raw, err := json.Marshal(r.body)
		if err != nil {
			return Result{}, nil, _errors.NewProtocolError(r.operation, nil, err)
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, c.baseUrl+r.path, payload)
	if err != nil {
		return Result{}, nil, _errors.NewTransportError(r.operation, err)
	}
	if r.body != nil {
		req.Header.Set(constant.HEADER_CONTENT_TYPE, constant.MIME_JSON)
	}
	if r.auth && c.token != "" {
		req.Header.Set(constant.HEADER_AUTHORIZATION, "Bearer "+c.token)
	}
	if r.deviceId != "" {
		req.Header.Set(constant.HEADER_DEVICE_ID, r.deviceId)
	}
	if r.uid != "" {
		req.Header.Set(c.identityHeader, r.uid)
	}

	log.Debug().
		Str("operation", r.operation).
		Str("method", r.method).
		Str("url", req.URL.String()).
		Msg("client: sending request")

	res, err := c.http.Do(req)
	if err != nil {
		return Result{}, nil, _errors.NewTransportError(r.operation, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return Result{}, nil, _errors.NewTransportError(r.operation, err)
	}

	codes := c.success[r.operation]
	if !slices.Contains(codes, res.StatusCode) {
		return Result{}, res.Header, _errors.NewApplicationError(r.operation, res.StatusCode, body)
	}

	log.Debug().
		Str("operation", r.operation).
		Int("status", res.StatusCode).
		Msg("client: request succeeded")
	return Result{
		Status: res.StatusCode,
		Body:   body,
		Legacy: res.StatusCode != codes[0],
	}, res.Header, nil
}

var errNotAnArray = errors.New("expected a json array of plants")

func requireFields(operation string, values map[string]string) error {
	fields := map[string]string{}
	for name, value := range values {
		if value == "" {
			fields[name] = fmt.Sprintf("required by %s", operation)
		}
	}
	if len(fields) > 0 {
		return _errors.NewValidationError(fields)
	}
	return nil
}

func decode(operation string, body []byte, v any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return _errors.NewProtocolError(operation, body, err)
	}
	return nil
}

// CreateUser registers a user and returns the uid issued by the server, or
// "" when the response carries none.
func (c *Client) CreateUser(ctx context.Context, username, email, password string) (uid string, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_CREATE_USER, err) }()

	res, _, err := c.do(ctx, request{
		operation: constant.OP_CREATE_USER,
		method:    http.MethodPost,
		path:      constant.PATH_USERS,
		body:      NewUser{username, email, password},
		auth:      true,
	})
	if err != nil {
		return "", err
	}

	var body uidBody
	if err := decode(constant.OP_CREATE_USER, res.Body, &body); err != nil {
		return "", err
	}
	return body.Uid, nil
}

func (c *Client) CreatePlant(ctx context.Context, uid, deviceId, plantName string) (res Result, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_CREATE_PLANT, err) }()

	if err := requireFields(constant.OP_CREATE_PLANT, map[string]string{"uid": uid, "device_id": deviceId}); err != nil {
		return Result{}, err
	}
	res, _, err = c.do(ctx, request{
		operation: constant.OP_CREATE_PLANT,
		method:    http.MethodPost,
		path:      constant.PATH_PLANTS,
		body:      NewPlant{plantName},
		auth:      true,
		deviceId:  deviceId,
		uid:       uid,
	})
	return res, err
}

func (c *Client) CreatePlantData(ctx context.Context, uid, deviceId string, reading Reading) (res Result, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_CREATE_PLANT_DATA, err) }()

	if err := requireFields(constant.OP_CREATE_PLANT_DATA, map[string]string{"uid": uid, "device_id": deviceId}); err != nil {
		return Result{}, err
	}
	res, _, err = c.do(ctx, request{
		operation: constant.OP_CREATE_PLANT_DATA,
		method:    http.MethodPost,
		path:      constant.PATH_WEATHER,
		body:      reading,
		auth:      true,
		deviceId:  deviceId,
		uid:       uid,
	})
	if err != nil {
		return res, err
	}
	c.metrics.reading(ctx, deviceId, reading)
	return res, nil
}

func (c *Client) GetPlantsFromUser(ctx context.Context, uid string) (plants []Plant, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_GET_PLANTS, err) }()

	if err := requireFields(constant.OP_GET_PLANTS, map[string]string{"uid": uid}); err != nil {
		return nil, err
	}
	res, _, err := c.do(ctx, request{
		operation: constant.OP_GET_PLANTS,
		method:    http.MethodGet,
		path:      fmt.Sprintf(constant.PATH_USER_PLANTS, url.PathEscape(uid)),
		auth:      true,
	})
	if err != nil {
		return nil, err
	}

	if body := bytes.TrimSpace(res.Body); len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, _errors.NewProtocolError(constant.OP_GET_PLANTS, res.Body, errNotAnArray)
	}
	plants = []Plant{}
	if err := decode(constant.OP_GET_PLANTS, res.Body, &plants); err != nil {
		return nil, err
	}
	return plants, nil
}

func (c *Client) CreateDevice(ctx context.Context, deviceId, uid string) (res Result, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_CREATE_DEVICE, err) }()

	if err := requireFields(constant.OP_CREATE_DEVICE, map[string]string{"uid": uid, "device_id": deviceId}); err != nil {
		return Result{}, err
	}
	res, _, err = c.do(ctx, request{
		operation: constant.OP_CREATE_DEVICE,
		method:    http.MethodPost,
		path:      constant.PATH_DEVICES,
		auth:      true,
		deviceId:  deviceId,
		uid:       uid,
	})
	return res, err
}

func (c *Client) session(operation string, res Result, header http.Header) (Session, error) {
	var session Session
	if err := decode(operation, res.Body, &session); err != nil {
		return Session{}, err
	}
	if session.Token == "" {
		session.Token = header.Get(constant.HEADER_AUTH_TOKEN)
	}
	return session, nil
}

// Signup creates an account and returns its uid along with the token the
// server hands out in the auth_token header.
func (c *Client) Signup(ctx context.Context, email, password string) (session Session, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_SIGNUP, err) }()

	res, header, err := c.do(ctx, request{
		operation: constant.OP_SIGNUP,
		method:    http.MethodPost,
		path:      constant.PATH_SIGNUP,
		body:      Credentials{email, password},
	})
	if err != nil {
		return Session{}, err
	}
	return c.session(constant.OP_SIGNUP, res, header)
}

func (c *Client) Login(ctx context.Context, email, password string) (session Session, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_LOGIN, err) }()

	res, header, err := c.do(ctx, request{
		operation: constant.OP_LOGIN,
		method:    http.MethodPost,
		path:      constant.PATH_LOGIN,
		body:      Credentials{email, password},
	})
	if err != nil {
		return Session{}, err
	}
	return c.session(constant.OP_LOGIN, res, header)
}

// RefreshToken trades the current, possibly expired, token for a new one.
// The server only refreshes tokens for devices that own a plant.
func (c *Client) RefreshToken(ctx context.Context, uid, deviceId string) (session Session, err error) {
	defer func() { c.metrics.request(ctx, constant.OP_REFRESH, err) }()

	if err := requireFields(constant.OP_REFRESH, map[string]string{"uid": uid, "device_id": deviceId}); err != nil {
		return Session{}, err
	}
	res, header, err := c.do(ctx, request{
		operation: constant.OP_REFRESH,
		method:    http.MethodPost,
		path:      constant.PATH_REFRESH,
		body:      struct{}{},
		auth:      true,
		deviceId:  deviceId,
		uid:       uid,
	})
	if err != nil {
		return Session{}, err
	}

	session, err = c.session(constant.OP_REFRESH, res, header)
	if err != nil {
		return Session{}, err
	}
	if session.Uid == "" {
		session.Uid = uid
	}
	return session, nil
}
