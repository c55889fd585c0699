package ui

import (
	"context"
	"errors"

	"InkBoard/internal/board"
	"InkBoard/internal/logging"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

type Options struct {
	Title    string
	ReadOnly bool
	// ShareLink is shown in the status bar when the board is shared.
	ShareLink string
	// OnContentChanged runs after every edit.
	OnContentChanged func()
	// Background runs on its own goroutine once the window is wired to
	// the board.
	Background func(ctx context.Context)
}

// RunApp shows the board window and runs the board loop until the window
// closes or ctx is done.
func RunApp(ctx context.Context, b *board.Board, opts Options) {
	if opts.Title == "" {
		opts.Title = "InkBoard"
	}
	myApp := app.New()
	myWindow := myApp.NewWindow(opts.Title)
	myWindow.Resize(fyne.NewSize(1024, 768))

	bw := NewBoardWidget(b)
	bw.ReadOnly = opts.ReadOnly
	bw.OnContentChanged = opts.OnContentChanged

	toolbar := NewToolbar(myWindow, bw)
	bw.OnRefreshUI = toolbar.Refresh

	status := container.NewHBox(bw.StatusBar(), layout.NewSpacer())
	if opts.ShareLink != "" {
		link := widget.NewEntry()
		link.SetText(opts.ShareLink)
		link.Disable()
		status.Add(widget.NewLabel("Share:"))
		status.Add(link)
	}

	content := container.NewBorder(toolbar.Object, status, nil, nil, bw)
	myWindow.SetContent(content)
	myWindow.Canvas().Focus(bw)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Logger().Error("board loop stopped", "err", err)
		}
	}()
	if opts.Background != nil {
		go opts.Background(ctx)
	}
	go func() {
		<-ctx.Done()
		fyne.Do(myWindow.Close)
	}()

	myWindow.ShowAndRun()
}
