package objscale

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/chai2010/tiff"
	mst "github.com/flywave/go-mst"
	"golang.org/x/image/bmp"
)

var errUnknownImageFormat = errors.New("unknown image format")

// convertTex decodes the image at path into an RGBA, zlib compressed MST
// texture.
func convertTex(path string, texId int) (*mst.Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	_, ft, err := image.DecodeConfig(f)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	img, err := readImage(f, ft)
	if err != nil {
		return nil, err
	}

	bd := img.Bounds()
	buf := make([]byte, 0, bd.Dx()*bd.Dy()*4)
	for y := bd.Min.Y; y < bd.Max.Y; y++ {
		for x := bd.Min.X; x < bd.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			buf = append(buf, c.R, c.G, c.B, c.A)
		}
	}

	t := &mst.Texture{}
	t.Id = int32(texId)
	t.Format = mst.TEXTURE_FORMAT_RGBA
	t.Size = [2]uint64{uint64(bd.Dx()), uint64(bd.Dy())}
	t.Compressed = mst.TEXTURE_COMPRESSED_ZLIB
	t.Data = mst.CompressImage(buf)
	return t, nil
}

func readImage(rd io.Reader, ft string) (image.Image, error) {
	switch ft {
	case "jpeg", "jpg":
		return jpeg.Decode(rd)
	case "png":
		return png.Decode(rd)
	case "gif":
		return gif.Decode(rd)
	case "bmp":
		return bmp.Decode(rd)
	case "tif", "tiff":
		return tiff.Decode(rd)
	default:
		return nil, errUnknownImageFormat
	}
}
