// 指示: miu200521358
package main

import (
	"fmt"
	"io"

	"github.com/miu200521358/mu_retarget/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_retarget/pkg/usecase/minteractor"
)

// progressPrinter は焼き込み進捗を標準出力へ表示する。
type progressPrinter struct {
	out       io.Writer
	lastTenth int
}

// newProgressPrinter はprogressPrinterを生成する。
func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out, lastTenth: -1}
}

// ReportBakeProgress は進捗イベントを表示する。フレーム進捗は10%刻みで間引く。
func (p *progressPrinter) ReportBakeProgress(event minteractor.BakeProgressEvent) {
	if p == nil || p.out == nil {
		return
	}
	switch event.Type {
	case minteractor.BakeProgressEventTypeProfileLoaded:
		fmt.Fprintln(p.out, messages.LogProfileLoaded)
	case minteractor.BakeProgressEventTypeClipLoaded:
		fmt.Fprintln(p.out, messages.LogClipLoaded)
	case minteractor.BakeProgressEventTypeSessionInitialized:
		fmt.Fprintln(p.out, messages.LogSessionInitialized)
	case minteractor.BakeProgressEventTypeFrameBaked:
		if event.FrameCount <= 0 {
			return
		}
		done := event.FrameIndex + 1
		tenth := done * 10 / event.FrameCount
		if tenth == p.lastTenth && done != event.FrameCount {
			return
		}
		p.lastTenth = tenth
		fmt.Fprintf(p.out, messages.LogFrameBaked+"\n", done, event.FrameCount)
	}
}
