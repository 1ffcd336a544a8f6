package appio

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/twop/shelv/internal/llmclient"
)

// DefaultIO is the production AppIO: real OpenAI streaming over
// internal/llmclient, real file reads over an afero.Fs (so it is still
// testable against afero.NewMemMapFs()), and a real os.Stdin isatty
// check.
type DefaultIO struct {
	LLM *llmclient.Client
	Fs  afero.Fs
}

// NewDefaultIO builds a DefaultIO. fs is typically afero.NewOsFs() in
// production and afero.NewMemMapFs() in tests.
func NewDefaultIO(llm *llmclient.Client, fs afero.Fs) *DefaultIO {
	return &DefaultIO{LLM: llm, Fs: fs}
}

func (d *DefaultIO) AskLLM(id uuid.UUID, addr RequestAddr, req LLMRequest) tea.Cmd {
	return d.stream(id, addr, req)
}

func (d *DefaultIO) AskLLMInline(id uuid.UUID, addr RequestAddr, req LLMRequest) tea.Cmd {
	return d.stream(id, addr, req)
}

// stream starts req in a background goroutine and returns a Cmd that
// reads the first message off its result channel. Every LLMChunkMsg
// carries a Next Cmd that reads the following message, so the reducer
// keeps the pump going by re-issuing Next until a Done or Error message
// arrives and the channel is closed.
func (d *DefaultIO) stream(id uuid.UUID, addr RequestAddr, req LLMRequest) tea.Cmd {
	ch := make(chan tea.Msg, 8)

	go func() {
		err := d.LLM.Stream(context.Background(), llmclient.Request{
			Model:        req.Model,
			SystemPrompt: req.SystemPrompt,
			Prompt:       req.Prompt,
		}, func(chunk string) {
			ch <- LLMChunkMsg{ID: id, Addr: addr, Chunk: chunk}
		})

		if err != nil {
			ch <- LLMErrorMsg{ID: id, Addr: addr, Err: err}
		} else {
			ch <- LLMDoneMsg{ID: id, Addr: addr}
		}

		close(ch)
	}()

	return listen(ch)
}

func listen(ch chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}

		if chunk, ok := msg.(LLMChunkMsg); ok {
			chunk.Next = listen(ch)

			return chunk
		}

		return msg
	}
}

func (d *DefaultIO) TryReadNoteIfNewer(note NoteID, path string, lastSaved time.Time) tea.Cmd {
	return func() tea.Msg {
		info, err := d.Fs.Stat(path)
		if err != nil {
			return NoteReloadFailedMsg{Note: note, Err: err}
		}

		if !info.ModTime().After(lastSaved.Add(10 * time.Millisecond)) {
			return nil
		}

		data, err := afero.ReadFile(d.Fs, path)
		if err != nil {
			return NoteReloadFailedMsg{Note: note, Err: err}
		}

		return NoteReloadedMsg{Note: note, Text: string(data), ModTime: info.ModTime()}
	}
}

func (d *DefaultIO) IsInteractive() bool {
	fd := os.Stdin.Fd()

	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
