package hwpx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"github.com/HC-ProductTech/hwpers/config"
)

const mimetypeContent = "application/hwp+zip"

// Hanword ships both script entries as a bare UTF-16LE byte order mark.
var utf16BOM = []byte{0xFF, 0xFE}

// Generate creates the HWPX output file.
func Generate(ctx context.Context, d *Document, outputPath string, cfg *config.DocumentConfig, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("Generating HWPX",
		zap.String("output", outputPath),
		zap.Int("sections", d.sectionCount()),
		zap.Int("images", len(d.images)))

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	tmpName := outputPath + ".tmp"

	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	if _, err := d.WriteTo(f); err != nil {
		return fmt.Errorf("unable to write package: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	// clean temporary file
	defer os.Remove(tmpName)

	if cfg.FixZip {
		return copyZipWithoutDataDescriptors(tmpName, outputPath)
	}
	return copyFile(tmpName, outputPath)
}

// WriteTo serializes the package to w with entries in the fixed order
// Hanword expects, starting with the stored mimetype. It implements
// io.WriterTo.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	zw := zip.NewWriter(cw)

	if err := d.writeEntries(zw); err != nil {
		return cw.n, err
	}
	if err := zw.Close(); err != nil {
		return cw.n, fmt.Errorf("unable to close output archive: %w", err)
	}
	return cw.n, nil
}

func (d *Document) writeEntries(zw *zip.Writer) error {
	if err := writeMimetype(zw); err != nil {
		return fmt.Errorf("unable to write mimetype: %w", err)
	}
	if err := writeXMLToZip(zw, "version.xml", buildVersion()); err != nil {
		return fmt.Errorf("unable to write version: %w", err)
	}
	if err := addDirEntry(zw, "Contents/"); err != nil {
		return err
	}
	if err := writeXMLToZip(zw, "Contents/header.xml", d.buildHeader()); err != nil {
		return fmt.Errorf("unable to write header: %w", err)
	}
	for i := 0; i < d.sectionCount(); i++ {
		s := &Section{}
		if i < len(d.Sections) {
			s = d.Sections[i]
		}
		if err := writeXMLToZip(zw, fmt.Sprintf("Contents/section%d.xml", i), d.buildSection(s)); err != nil {
			return fmt.Errorf("unable to write section %d: %w", i, err)
		}
	}
	if err := addDirEntry(zw, "Preview/"); err != nil {
		return err
	}
	if err := writeDataToZip(zw, "Preview/PrvText.txt", []byte(d.PreviewText())); err != nil {
		return fmt.Errorf("unable to write preview: %w", err)
	}
	if err := addDirEntry(zw, "Scripts/"); err != nil {
		return err
	}
	for _, name := range []string{"Scripts/headerScripts", "Scripts/sourceScripts"} {
		if err := writeDataToZip(zw, name, utf16BOM); err != nil {
			return fmt.Errorf("unable to write scripts: %w", err)
		}
	}
	if err := writeXMLToZip(zw, "settings.xml", buildSettings()); err != nil {
		return fmt.Errorf("unable to write settings: %w", err)
	}
	if err := addDirEntry(zw, "META-INF/"); err != nil {
		return err
	}
	if err := writeXMLToZip(zw, "META-INF/container.xml", buildContainer()); err != nil {
		return fmt.Errorf("unable to write container: %w", err)
	}
	if err := writeXMLToZip(zw, "META-INF/manifest.xml", buildManifest()); err != nil {
		return fmt.Errorf("unable to write manifest: %w", err)
	}
	if err := writeXMLToZip(zw, "META-INF/container.rdf", d.buildContainerRDF()); err != nil {
		return fmt.Errorf("unable to write container.rdf: %w", err)
	}
	if err := writeXMLToZip(zw, "Contents/content.hpf", d.buildContentHPF()); err != nil {
		return fmt.Errorf("unable to write content.hpf: %w", err)
	}
	if len(d.images) == 0 {
		return nil
	}
	if err := addDirEntry(zw, "BinData/"); err != nil {
		return err
	}
	for i, img := range d.images {
		if err := writeImage(zw, i+1, img); err != nil {
			return fmt.Errorf("unable to write image %d: %w", i+1, err)
		}
	}
	return nil
}

func writeMimetype(zw *zip.Writer) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   "mimetype",
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mimetypeContent)
	return err
}

// writeImage stores picture bytes uncompressed.
func writeImage(zw *zip.Writer, seq int, img *Image) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   fmt.Sprintf("BinData/image%d.%s", seq, img.Format.Ext()),
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(img.Data)
	return err
}

func addDirEntry(zw *zip.Writer, name string) error {
	if _, err := zw.Create(name); err != nil {
		return fmt.Errorf("unable to add directory %s: %w", name, err)
	}
	return nil
}

func writeXMLToZip(zw *zip.Writer, name string, doc *etree.Document) error {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return err
	}
	return writeDataToZip(zw, name, buf.Bytes())
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}

func copyFile(src, dst string) error {

	sourceFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	destinationFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destinationFile.Close()

	if _, err = io.Copy(destinationFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	if err = destinationFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file: %w", err)
	}
	return nil
}
