// Menu handler for application actions
package gui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-filter-engine/internal/core"
	"image-filter-engine/internal/io"
)

// MenuHandler handles menu actions
type MenuHandler struct {
	window    fyne.Window
	imageData *core.ImageData
	loader    *io.ImageLoader
	logger    logrus.FieldLogger

	onImageLoaded func(string)
	onImageSaved  func(string)
}

func NewMenuHandler(window fyne.Window, imageData *core.ImageData, loader *io.ImageLoader, logger logrus.FieldLogger) *MenuHandler {
	return &MenuHandler{
		window:    window,
		imageData: imageData,
		loader:    loader,
		logger:    logger,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mh.openImage),
		fyne.NewMenuItem("Save Results...", mh.saveResults),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			mh.window.Close()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, helpMenu)
}

func (mh *MenuHandler) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		mh.logger.WithField("filepath", path).Info("Loading selected image")

		g, err := mh.loader.LoadGrayscale(path)
		if err != nil {
			mh.showError("Failed to Load Image", err)
			return
		}
		if err := mh.imageData.SetOriginal(g, path); err != nil {
			mh.showError("Invalid Image", err)
			return
		}

		if mh.onImageLoaded != nil {
			mh.onImageLoaded(path)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(mh.loader.ReadExtensions()))
	fileDialog.Show()
}

// saveResults writes every computed panel as <algorithm>.png into a folder
func (mh *MenuHandler) saveResults() {
	if !mh.imageData.HasImage() {
		mh.showError("No Image", fmt.Errorf("no image loaded to save"))
		return
	}

	folderDialog := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if uri == nil {
			return
		}

		dir := uri.Path()
		n, err := SaveResults(mh.loader, mh.imageData, dir)
		if err != nil {
			mh.showError("Failed to Save Results", err)
			return
		}
		mh.logger.WithFields(logrus.Fields{
			"source": mh.imageData.GetFilepath(),
			"dir":    dir,
			"files":  n,
		}).Info("Results saved")

		if mh.onImageSaved != nil {
			mh.onImageSaved(dir)
		}
	}, mh.window)
	folderDialog.Show()
}

// SaveResults writes the original and each available filter output into dir
// and returns how many files were written.
func SaveResults(loader *io.ImageLoader, data *core.ImageData, dir string) (int, error) {
	original := data.GetOriginal()
	if original == nil {
		return 0, fmt.Errorf("no image loaded")
	}

	written := 0
	for _, panel := range core.DemoPanels {
		name, g := "original", original
		if panel.Algorithm != "" {
			out, ok := data.GetResult(panel.Algorithm)
			if !ok {
				continue
			}
			name, g = panel.Algorithm, panel.Display(out)
		}
		if err := loader.SaveImage(g, filepath.Join(dir, name+".png")); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Grayscale Filter Comparison"),
		widget.NewSeparator(),
		widget.NewLabel("Gaussian, median and bilateral smoothing"),
		widget.NewLabel("with Sobel and Laplacian edge detection."),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go and Fyne v2.6"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 240))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	mh.logger.WithError(err).Error(title)
	dialog.ShowError(err, mh.window)
}

func (mh *MenuHandler) SetCallbacks(onImageLoaded, onImageSaved func(string)) {
	mh.onImageLoaded = onImageLoaded
	mh.onImageSaved = onImageSaved
}
