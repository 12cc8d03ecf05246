package test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"math/big"
	"net"

	"github.com/quic-go/quic-go"
)

// NextProto is the ALPN protocol the QUIC message center accepts.
const NextProto = "smpp"

// Server accepts connections and serves each with the same handler.
type Server struct {
	addr     string
	close    func() error
	h        Handler
	sessions chan *Session
}

func newServer(addr string, h Handler, closeFn func() error) *Server {
	return &Server{
		addr:     addr,
		close:    closeFn,
		h:        h,
		sessions: make(chan *Session, 16),
	}
}

// Listen serves plain TCP on a random local port.
func Listen(h Handler) (*Server, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}
	return serveListener(ln, h), nil
}

// ListenTLS serves TLS with a throwaway self-signed certificate.
func ListenTLS(h Handler) (*Server, error) {
	ln, err := tls.Listen("tcp", "127.0.0.1:0", TLSConfig())
	if err != nil {
		return nil, fmt.Errorf("listen tls: %w", err)
	}
	return serveListener(ln, h), nil
}

func serveListener(ln net.Listener, h Handler) *Server {
	srv := newServer(ln.Addr().String(), h, ln.Close)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			srv.serve(conn)
		}
	}()
	return srv
}

// ListenQUIC serves one session per QUIC connection, on the first stream
// the client opens.
func ListenQUIC(h Handler) (*Server, error) {
	ln, err := quic.ListenAddr("127.0.0.1:0", TLSConfig(), nil)
	if err != nil {
		return nil, fmt.Errorf("listen quic: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	srv := newServer(ln.Addr().String(), h, func() error {
		cancel()
		return ln.Close()
	})

	go func() {
		for {
			conn, err := ln.Accept(ctx)
			if err != nil {
				return
			}
			go func() {
				str, err := conn.AcceptStream(ctx)
				if err != nil {
					_ = conn.CloseWithError(0, "")
					return
				}
				srv.serve(&stream{ReadWriter: str, close: func() error {
					_ = str.Close()
					return conn.CloseWithError(0, "")
				}})
			}()
		}
	}()

	return srv, nil
}

// stream ties a QUIC stream to the connection it runs on.
type stream struct {
	io.ReadWriter
	close func() error
}

func (s *stream) Close() error {
	return s.close()
}

func (srv *Server) serve(conn io.ReadWriteCloser) {
	s := Serve(conn, srv.h)
	select {
	case srv.sessions <- s:
	default:
	}
}

func (srv *Server) Addr() string {
	return srv.addr
}

// Sessions yields accepted sessions.
func (srv *Server) Sessions() <-chan *Session {
	return srv.sessions
}

func (srv *Server) Close() error {
	return srv.close()
}

// TLSConfig returns a server config with a fresh self-signed certificate.
func TLSConfig() *tls.Config {
	key, _ := rsa.GenerateKey(rand.Reader, 2048)
	template := x509.Certificate{SerialNumber: big.NewInt(1)}
	cert, _ := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	tlsCert := tls.Certificate{
		Certificate: [][]byte{cert},
		PrivateKey:  key,
	}
	return &tls.Config{Certificates: []tls.Certificate{tlsCert}, NextProtos: []string{NextProto}}
}
