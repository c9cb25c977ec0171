package connio

import (
	"errors"
	"io"
	"net"
	"net/http"
	"sync"
)

var errHijackUnsupported = errors.New("connio: response writer does not support hijacking")

// HandleConnect services an HTTP CONNECT request by dialing the requested
// authority, answering with a tunnel-established response, and then
// bidirectionally copying bytes until either side closes.
func HandleConnect(w http.ResponseWriter, r *http.Request) error {
	target, err := net.Dial("tcp", r.Host)
	if err != nil {
		w.WriteHeader(http.StatusBadGateway)
		return err
	}
	defer target.Close()

	hijacker, ok := w.(http.Hijacker)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return errHijackUnsupported
	}
	clientConn, _, err := hijacker.Hijack()
	if err != nil {
		return err
	}
	defer clientConn.Close()

	if _, err := clientConn.Write([]byte("HTTP/1.1 200 Connection Established\r\n\r\n")); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		io.Copy(target, clientConn)
	}()
	go func() {
		defer wg.Done()
		io.Copy(clientConn, target)
	}()
	wg.Wait()
	return nil
}
