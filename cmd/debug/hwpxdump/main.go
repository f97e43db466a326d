// hwpxdump inspects finished HWPX packages: entry listing, layout checks
// against the order the consuming application expects, preview text dump
// and entry extraction.
//
// HWPX packages are ZIP archives with a fixed entry order. The first entry
// must be the uncompressed mimetype, picture payloads under BinData/ are
// stored without compression as well.
package main

import (
	"archive/zip"
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/HC-ProductTech/hwpers/archive"
	"github.com/HC-ProductTech/hwpers/utils/debug"
)

const mimetypeContent = "application/hwp+zip"

var utf16BOM = []byte{0xFF, 0xFE}

// requiredEntries must all be present, in this relative order among the
// package's file entries.
var requiredEntries = []string{
	"mimetype",
	"version.xml",
	"Contents/header.xml",
	"Contents/section0.xml",
	"Preview/PrvText.txt",
	"Scripts/headerScripts",
	"Scripts/sourceScripts",
	"settings.xml",
	"META-INF/container.xml",
	"META-INF/manifest.xml",
	"META-INF/container.rdf",
	"Contents/content.hpf",
}

func main() {
	all := flag.Bool("all", false, "enable all dump flags (-list, -check, -text, -extract)")
	list := flag.Bool("list", false, "print the entry tree with sizes and compression methods")
	check := flag.Bool("check", false, "verify required entries, their order and compression")
	text := flag.Bool("text", false, "print the preview text")
	extract := flag.Bool("extract", false, "extract all entries into [outdir], re-indenting XML")
	entry := flag.String("entry", "", "print the content of a single entry to stdout")
	overwrite := flag.Bool("overwrite", false, "overwrite existing output")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: hwpxdump [-all] [-list] [-check] [-text] [-extract] [-entry name] [-overwrite] <file.hwpx> [outdir]\n\n")
		fmt.Fprintf(os.Stderr, "Inspects packages produced by the converter.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	if *all {
		*list = true
		*check = true
		*text = true
		*extract = true
	}

	if !*list && !*check && !*text && !*extract && len(*entry) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	defer func(startedAt time.Time) {
		fmt.Fprintf(os.Stderr, "\nExecution time: %s\n", time.Since(startedAt))
	}(time.Now())

	pkg := flag.Arg(0)
	outDir := ""
	if flag.NArg() == 2 {
		outDir = flag.Arg(1)
	}

	if len(*entry) != 0 {
		data, err := archive.ReadEntry(pkg, *entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read entry: %v\n", err)
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(data)
	}

	if *list {
		if err := listEntries(pkg); err != nil {
			fmt.Fprintf(os.Stderr, "list %s: %v\n", pkg, err)
			os.Exit(1)
		}
	}

	if *text {
		if err := printPreview(pkg); err != nil {
			fmt.Fprintf(os.Stderr, "preview %s: %v\n", pkg, err)
			os.Exit(1)
		}
	}

	if *check {
		problems, err := checkLayout(pkg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check %s: %v\n", pkg, err)
			os.Exit(1)
		}
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "problem: %s\n", p)
			}
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "%s: layout is good\n", filepath.Base(pkg))
	}

	if *extract {
		if err := extractEntries(pkg, outDir, *overwrite); err != nil {
			fmt.Fprintf(os.Stderr, "extract %s: %v\n", pkg, err)
			os.Exit(1)
		}
	}
}

// listEntries prints the package as a tree in stored entry order, one line
// per file entry with its compression method and uncompressed size.
func listEntries(pkg string) error {
	tw := debug.NewTreeWriter(os.Stdout)
	tw.Line(0, "%s", pkg)

	seen := make(map[string]bool)
	err := archive.Walk(pkg, "", func(_ string, f *zip.File) error {
		depth := 1
		if dir := path.Dir(f.Name); dir != "." {
			if !seen[dir] {
				seen[dir] = true
				tw.Line(1, "%s/", dir)
			}
			depth = 2
		}
		method := "deflated"
		if f.Method == zip.Store {
			method = "stored"
		}
		tw.Line(depth, "%s (%s, %d bytes)", path.Base(f.Name), method, f.UncompressedSize64)
		return nil
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}

func printPreview(pkg string) error {
	data, err := archive.ReadEntry(pkg, "Preview/PrvText.txt")
	if err != nil {
		return err
	}
	tw := debug.NewTreeWriter(os.Stdout)
	tw.TextBlock(0, "preview", string(data))
	return tw.Flush()
}

// checkLayout reports everything that would keep the consuming application
// from opening the package.
func checkLayout(pkg string) ([]string, error) {
	type entryInfo struct {
		pos    int
		method uint16
	}

	infos := make(map[string]entryInfo)
	var order []string
	err := archive.Walk(pkg, "", func(_ string, f *zip.File) error {
		infos[f.Name] = entryInfo{pos: len(order), method: f.Method}
		order = append(order, f.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var problems []string
	if len(order) == 0 {
		return []string{"package has no file entries"}, nil
	}
	if order[0] != "mimetype" {
		problems = append(problems, fmt.Sprintf("first entry is %q, want mimetype", order[0]))
	}

	if info, ok := infos["mimetype"]; ok {
		if info.method != zip.Store {
			problems = append(problems, "mimetype entry is compressed, must be stored")
		}
		data, err := archive.ReadEntry(pkg, "mimetype")
		if err != nil {
			return nil, err
		}
		if string(data) != mimetypeContent {
			problems = append(problems, fmt.Sprintf("mimetype content is %q, want %q", data, mimetypeContent))
		}
	}

	lastPos := -1
	for _, name := range requiredEntries {
		info, ok := infos[name]
		if !ok {
			problems = append(problems, fmt.Sprintf("required entry %s is missing", name))
			continue
		}
		if info.pos < lastPos {
			problems = append(problems, fmt.Sprintf("entry %s is out of order", name))
			continue
		}
		lastPos = info.pos
	}

	for _, name := range []string{"Scripts/headerScripts", "Scripts/sourceScripts"} {
		if _, ok := infos[name]; !ok {
			continue
		}
		data, err := archive.ReadEntry(pkg, name)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(data, utf16BOM) {
			problems = append(problems, fmt.Sprintf("entry %s must hold exactly the UTF-16LE byte order mark", name))
		}
	}

	for name, info := range infos {
		if strings.HasPrefix(name, "BinData/") && info.method != zip.Store {
			problems = append(problems, fmt.Sprintf("picture entry %s is compressed, must be stored", name))
		}
	}

	return problems, nil
}

func extractEntries(pkg, outDir string, overwrite bool) error {
	if len(outDir) == 0 {
		outDir = strings.TrimSuffix(pkg, filepath.Ext(pkg)) + "-contents"
	}

	return archive.Walk(pkg, "", func(_ string, f *zip.File) error {
		target := filepath.Join(outDir, filepath.FromSlash(f.Name))
		if _, err := os.Stat(target); err == nil && !overwrite {
			return fmt.Errorf("%s already exists, use -overwrite", target)
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}

		rc, err := f.Open()
		if err != nil {
			return err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return err
		}
		if isXMLEntry(f.Name) {
			data = prettyXML(data)
		}

		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "extracted %s\n", target)
		return nil
	})
}

// isXMLEntry reports whether the package writer produces this entry as an
// XML document. content.hpf and container.rdf carry XML behind non-xml
// extensions.
func isXMLEntry(name string) bool {
	switch path.Ext(name) {
	case ".xml", ".hpf", ".rdf":
		return true
	}
	return false
}

// prettyXML re-indents packed XML for reading. Content that does not parse
// comes back unchanged.
func prettyXML(data []byte) []byte {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return data
	}
	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return data
	}
	return out
}
