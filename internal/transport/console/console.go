package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// maxLineLength — предел длины одной строки ввода; хвост более длинной строки отбрасывается
const maxLineLength = 4096

type lineResult struct {
	text    string
	tooLong bool
	err     error
}

// Console — построчный канал ввода-вывода поверх stdin/stdout
// чтение идёт в отдельной горутине, поэтому ожидание ввода прерывается отменой контекста
type Console struct {
	in    *bufio.Reader
	out   io.Writer
	lines chan lineResult
	start sync.Once
}

// New создает консоль поверх переданных потоков
func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan lineResult),
	}
}

// Write делает Console совместимой с io.Writer (для отчётов)
func (c *Console) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

// Printf печатает форматированную строку
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// ReadLine печатает приглашение и читает одну строку без перевода строки
// при закрытом вводе возвращает io.EOF, при отмене контекста его ошибку
// слишком длинная строка не принимается, приглашение печатается снова
func (c *Console) ReadLine(ctx context.Context, prompt string) (string, error) {
	c.start.Do(func() { go c.readLoop() })

	for {
		fmt.Fprint(c.out, prompt)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-c.lines:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			if res.tooLong {
				c.Printf("  Input is too long (max %d characters).\n", maxLineLength)
				continue
			}
			return res.text, nil
		}
	}
}

// readLoop читает строки, пока ввод не закончится; после ошибки канал закрывается
func (c *Console) readLoop() {
	defer close(c.lines)

	for {
		text, tooLong, err := readLine(c.in)
		if err != nil {
			if err != io.EOF {
				c.lines <- lineResult{err: err}
			}
			return
		}
		c.lines <- lineResult{text: text, tooLong: tooLong}
	}
}

// readLine собирает строку из кусков bufio.Reader.ReadLine,
// не накапливая в памяти больше maxLineLength байт
func readLine(r *bufio.Reader) (string, bool, error) {
	var (
		buf     []byte
		tooLong bool
	)

	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return "", false, err
		}

		if !tooLong {
			if len(buf)+len(chunk) > maxLineLength {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// ReadInt читает целое число; на некорректный ввод переспрашивает
func (c *Console) ReadInt(ctx context.Context, prompt string) (int64, error) {
	for {
		line, err := c.ReadLine(ctx, prompt)
		if err != nil {
			return 0, err
		}

		n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if err == nil {
			return n, nil
		}
		c.Printf("  Please enter a whole number.\n")
	}
}

// Confirm задаёт вопрос y/n; на другой ответ переспрашивает
func (c *Console) Confirm(ctx context.Context, prompt string) (bool, error) {
	for {
		line, err := c.ReadLine(ctx, prompt)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.Printf("  Please answer 'y' or 'n'.\n")
	}
}
