package downloader

import (
	"io"
	"sync"
)

func copyWithProgress(dst io.Writer, src io.Reader, progress func(done int64)) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		nr, er := src.Read(buf)

		if nr > 0 {
			nw, ew := dst.Write(buf[0:nr])

			if nw > 0 {
				total += int64(nw)
				if progress != nil {
					progress(total)
				}
			}

			if ew != nil {
				return total, ew
			}

			if nr != nw {
				return total, io.ErrShortWrite
			}
		}

		if er != nil {
			if er == io.EOF {
				break
			}
			return total, er
		}
	}

	return total, nil
}

type progressCounter struct {
	mu    sync.Mutex
	count int
	bytes int64
}

func (p *progressCounter) add(n int64) (int, int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	p.bytes += n
	return p.count, p.bytes
}
