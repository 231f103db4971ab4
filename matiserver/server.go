package matiserver

import (
	"bufio"
	"fmt"
	"net"
	"sort"
	"strings"

	"github.com/mlopezgez/matidb/database"
	"github.com/mlopezgez/matidb/executor"
	"github.com/mlopezgez/matidb/sqlfront"
	log "github.com/sirupsen/logrus"
)

// Server accepts one TCP client at a time and runs its queries against a
// shared Database. A second client simply blocks in Accept until the
// first disconnects.
type Server struct {
	db       *database.Database
	listener net.Listener
	addr     string
}

// NewServer binds addr and wraps db for serving.
func NewServer(addr string, db *database.Database) (*Server, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("matiserver: listen on %s: %w", addr, err)
	}
	return &Server{db: db, listener: l, addr: addr}, nil
}

// Run accepts and serves clients, one at a time, until the listener is
// closed. It flushes and saves the catalog after every client
// disconnects, and again on its own shutdown.
func (s *Server) Run() error {
	log.WithFields(log.Fields{"addr": s.addr}).Info("MatiDB server listening")
	defer func() {
		if err := s.db.Flush(); err != nil {
			log.WithError(err).Warn("matiserver: flush on shutdown failed")
		}
		if err := s.db.SaveCatalog(); err != nil {
			log.WithError(err).Warn("matiserver: save catalog on shutdown failed")
		}
	}()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return fmt.Errorf("matiserver: accept: %w", err)
		}

		s.handleClient(conn)

		if err := s.db.Flush(); err != nil {
			log.WithError(err).Warn("matiserver: flush after client disconnect failed")
		}
		if err := s.db.SaveCatalog(); err != nil {
			log.WithError(err).Warn("matiserver: save catalog after client disconnect failed")
		}
	}
}

// Addr returns the address the server is actually listening on, which
// differs from the configured one when it was bound to port 0.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

func (s *Server) handleClient(conn net.Conn) {
	remote := conn.RemoteAddr().String()
	log.WithFields(log.Fields{"client": remote}).Info("client connected")
	defer conn.Close()
	defer log.WithFields(log.Fields{"client": remote}).Info("client disconnected")

	reader := bufio.NewReader(conn)
	for {
		query, err := ReadQuery(reader)
		if err != nil {
			return
		}
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}

		resp, shouldExit := Dispatch(s.db, query)
		if err := WriteResponse(conn, resp); err != nil {
			log.WithFields(log.Fields{"client": remote, "error": err}).Warn("write failed")
			return
		}
		if shouldExit {
			return
		}
	}
}

// Dispatch handles one input line, which is either a special command
// (exit/quit/tables/flush, matched case-insensitively) or SQL text, and
// returns the response to send plus whether the session should end.
func Dispatch(db *database.Database, query string) (Response, bool) {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "exit", "quit":
		return Ok("Goodbye"), true
	case "tables":
		return Ok(listTables(db)), false
	case "flush":
		if err := db.Flush(); err != nil {
			return Err("Failed to flush: " + err.Error()), false
		}
		return Ok("All pages flushed to disk"), false
	}

	sub, err := sqlfront.Parse(query)
	if err != nil {
		return Err(err.Error()), false
	}

	var results []string
	for _, stmt := range sub.Statements {
		msg, err := executor.Execute(db, stmt)
		if err != nil {
			return Err(err.Error()), false
		}
		results = append(results, msg)
	}
	return Ok(strings.Join(results, "\n")), false
}

func listTables(db *database.Database) string {
	if len(db.Catalog.Tables) == 0 {
		return "No tables"
	}
	names := make([]string, 0, len(db.Catalog.Tables))
	for name := range db.Catalog.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, "\n")
}
