package hwpx

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// hwpUnitsPerMM converts millimeters to HWP units (7200 per inch).
const hwpUnitsPerMM = 7200.0 / 25.4

const defaultImageMM = 50

func buildPicture(a *ImageAttachment) *etree.Element {
	img := a.Image

	widthMM, heightMM := defaultImageMM, defaultImageMM
	if img.HasDims {
		widthMM, heightMM = img.WidthMM, img.HeightMM
	}
	orgW := int(float64(widthMM) * hwpUnitsPerMM)
	orgH := int(float64(heightMM) * hwpUnitsPerMM)

	// Shrink to the body width, preserving aspect ratio
	curW, curH := orgW, orgH
	if orgW > tableContentWidth {
		scale := float64(tableContentWidth) / float64(orgW)
		curW = tableContentWidth
		curH = int(float64(orgH) * scale)
	}

	pic := etree.NewElement("hp:pic")
	pic.CreateAttr("id", strconv.Itoa(a.Seq))
	pic.CreateAttr("zOrder", strconv.Itoa(a.Seq-1))
	pic.CreateAttr("numberingType", "PICTURE")
	pic.CreateAttr("textWrap", "TOP_AND_BOTTOM")
	pic.CreateAttr("textFlow", "BOTH_SIDES")
	pic.CreateAttr("lock", "0")
	pic.CreateAttr("dropcapstyle", "None")
	pic.CreateAttr("href", "")
	pic.CreateAttr("groupLevel", "0")
	pic.CreateAttr("instid", strconv.Itoa(a.Seq))
	pic.CreateAttr("reverse", "0")

	offset := pic.CreateElement("hp:offset")
	offset.CreateAttr("x", "0")
	offset.CreateAttr("y", "0")

	orgSz := pic.CreateElement("hp:orgSz")
	orgSz.CreateAttr("width", strconv.Itoa(orgW))
	orgSz.CreateAttr("height", strconv.Itoa(orgH))

	curSz := pic.CreateElement("hp:curSz")
	curSz.CreateAttr("width", strconv.Itoa(curW))
	curSz.CreateAttr("height", strconv.Itoa(curH))

	flip := pic.CreateElement("hp:flip")
	flip.CreateAttr("horizontal", "0")
	flip.CreateAttr("vertical", "0")

	rot := pic.CreateElement("hp:rotationInfo")
	rot.CreateAttr("angle", "0")
	rot.CreateAttr("centerX", strconv.Itoa(curW/2))
	rot.CreateAttr("centerY", strconv.Itoa(curH/2))
	rot.CreateAttr("rotateimage", "1")

	scaX, scaY := 1.0, 1.0
	if orgW > 0 {
		scaX = float64(curW) / float64(orgW)
	}
	if orgH > 0 {
		scaY = float64(curH) / float64(orgH)
	}
	rendering := pic.CreateElement("hp:renderingInfo")
	addMatrix(rendering, "hc:transMatrix", "1", "1")
	addMatrix(rendering, "hc:scaMatrix", fmt.Sprintf("%.6f", scaX), fmt.Sprintf("%.6f", scaY))
	addMatrix(rendering, "hc:rotMatrix", "1", "1")

	// hc namespace here, not hp
	ref := pic.CreateElement("hc:img")
	ref.CreateAttr("binaryItemIDRef", fmt.Sprintf("image%d", a.Seq))
	ref.CreateAttr("bright", "0")
	ref.CreateAttr("contrast", "0")
	ref.CreateAttr("effect", "REAL_PIC")
	ref.CreateAttr("alpha", "0")

	rect := pic.CreateElement("hp:imgRect")
	addPoint(rect, "hc:pt0", 0, 0)
	addPoint(rect, "hc:pt1", orgW, 0)
	addPoint(rect, "hc:pt2", orgW, orgH)
	addPoint(rect, "hc:pt3", 0, orgH)

	clip := pic.CreateElement("hp:imgClip")
	clip.CreateAttr("left", "0")
	clip.CreateAttr("right", strconv.Itoa(orgW))
	clip.CreateAttr("top", "0")
	clip.CreateAttr("bottom", strconv.Itoa(orgH))

	addMargin(pic, "hp:inMargin", 0, 0, 0, 0)

	dim := pic.CreateElement("hp:imgDim")
	dim.CreateAttr("dimwidth", strconv.Itoa(orgW))
	dim.CreateAttr("dimheight", strconv.Itoa(orgH))

	pic.CreateElement("hp:effects")

	addSize(pic, curW, curH)
	addAnchorPos(pic, "1")
	addMargin(pic, "hp:outMargin", 0, 0, 0, 0)
	return pic
}

func addMatrix(parent *etree.Element, name, e1, e5 string) {
	m := parent.CreateElement(name)
	m.CreateAttr("e1", e1)
	m.CreateAttr("e2", "0")
	m.CreateAttr("e3", "0")
	m.CreateAttr("e4", "0")
	m.CreateAttr("e5", e5)
	m.CreateAttr("e6", "0")
}

func addPoint(parent *etree.Element, name string, x, y int) {
	pt := parent.CreateElement(name)
	pt.CreateAttr("x", strconv.Itoa(x))
	pt.CreateAttr("y", strconv.Itoa(y))
}
