package slidedom

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"golang.org/x/crypto/blake2b"
)

// testBMP returns the header of a 3x2 24-bit bitmap.
func testBMP() []byte {
	b := make([]byte, 54)
	copy(b, "BM")
	binary.LittleEndian.PutUint32(b[2:], 54+3*3*2+2*3)
	binary.LittleEndian.PutUint32(b[10:], 54)
	binary.LittleEndian.PutUint32(b[14:], 40)
	binary.LittleEndian.PutUint32(b[18:], 3)
	binary.LittleEndian.PutUint32(b[22:], 2)
	binary.LittleEndian.PutUint16(b[26:], 1)
	binary.LittleEndian.PutUint16(b[28:], 24)
	return append(b, make([]byte, 24)...)
}

func TestMediaDeduplicates(t *testing.T) {
	d := newTestDoc(t)
	store := d.GetMedia()

	a, err := store.Add(testPNG(), "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	b, err := store.Add(testPNG(), "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if a != b {
		t.Errorf("identical bytes produced two handles")
	}
	if store.Len() != 1 {
		t.Errorf("Len() = %d, want 1", store.Len())
	}
	if a.GetName() != "image1.png" || a.GetContentType() != "image/png" {
		t.Errorf("entry = %s %s, want image1.png image/png", a.GetName(), a.GetContentType())
	}

	g, err := store.Add(testGIF(), "")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if g.GetName() != "image2.gif" {
		t.Errorf("second entry name = %q, want image2.gif", g.GetName())
	}
	if w, h := g.GetPixelSize(); w != 2 || h != 1 {
		t.Errorf("GetPixelSize() = %dx%d, want 2x1", w, h)
	}
}

func TestMediaSharedAcrossShapes(t *testing.T) {
	d := newTestDoc(t)
	s, _ := d.GetSlide(0)
	p1, err := s.GetShapes().AddPicture(testPNG())
	if err != nil {
		t.Fatalf("AddPicture() error = %v", err)
	}
	box := mustAddShape(t, s.GetShapes(), 0, 0, 50, 50)
	f, _ := box.GetFill()
	if err := f.SetPicture(testPNG()); err != nil {
		t.Fatalf("SetPicture() error = %v", err)
	}
	img, _ := p1.GetImage()
	fill, _ := f.GetPicture()
	if img != fill {
		t.Errorf("picture and fill hold different entries for the same bytes")
	}
	if d.GetMedia().Len() != 1 {
		t.Errorf("Len() = %d, want 1", d.GetMedia().Len())
	}
}

func TestMediaFormats(t *testing.T) {
	d := newTestDoc(t)
	store := d.GetMedia()

	bmp, err := store.Add(testBMP(), "")
	if err != nil {
		t.Fatalf("Add(bmp) error = %v", err)
	}
	if bmp.GetContentType() != "image/bmp" {
		t.Errorf("content type = %q, want image/bmp", bmp.GetContentType())
	}
	if w, h := bmp.GetPixelSize(); w != 3 || h != 2 {
		t.Errorf("GetPixelSize() = %dx%d, want 3x2", w, h)
	}

	video, err := store.Add([]byte("not really a movie"), "video/mp4")
	if err != nil {
		t.Fatalf("Add(video) error = %v", err)
	}
	if video.GetName() != "media2.mp4" {
		t.Errorf("video name = %q, want media2.mp4", video.GetName())
	}

	if _, err := store.Add(nil, "video/mp4"); !errors.Is(err, ErrFormat) {
		t.Errorf("Add(empty) error = %v, want ErrFormat", err)
	}
	if _, err := store.Add([]byte("plain text"), ""); !errors.Is(err, ErrFormat) {
		t.Errorf("Add(undecodable) error = %v, want ErrFormat", err)
	}
}

func TestComputeHashRestoresPosition(t *testing.T) {
	d := newTestDoc(t)
	data := testPNG()
	r := bytes.NewReader(data)
	if _, err := r.Seek(5, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	got, err := d.GetMedia().ComputeHash(r)
	if err != nil {
		t.Fatalf("ComputeHash() error = %v", err)
	}
	sum := sha512.Sum512(data)
	if want := base64.StdEncoding.EncodeToString(sum[:]); got != want {
		t.Errorf("ComputeHash() = %q, want %q", got, want)
	}
	if pos, _ := r.Seek(0, io.SeekCurrent); pos != 5 {
		t.Errorf("position after ComputeHash = %d, want 5", pos)
	}
}

func TestComputeHashBLAKE2b(t *testing.T) {
	d := newTestDoc(t, WithHasher(BLAKE2b512))
	data := testGIF()
	got, err := d.GetMedia().ComputeHash(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ComputeHash() error = %v", err)
	}
	sum := blake2b.Sum512(data)
	if want := base64.StdEncoding.EncodeToString(sum[:]); got != want {
		t.Errorf("ComputeHash() = %q, want %q", got, want)
	}
}

func TestMediaPutKeepsExisting(t *testing.T) {
	d := newTestDoc(t)
	store := d.GetMedia()
	first, _ := store.Add(testPNG(), "")

	other := &MediaHandle{contentType: "image/png", data: []byte{1}}
	if store.Put(first.GetDigest(), other) {
		t.Errorf("Put() over an existing digest = true, want false")
	}
	if h, _ := store.TryGet(first.GetDigest()); h != first {
		t.Errorf("Put() replaced the registered entry")
	}

	if !store.Remove(first.GetDigest()) {
		t.Errorf("Remove() = false, want true")
	}
	if store.Remove(first.GetDigest()) {
		t.Errorf("second Remove() = true, want false")
	}
}

func TestMediaPrune(t *testing.T) {
	d := newTestDoc(t)
	store := d.GetMedia()
	keep, _ := store.Add(testPNG(), "")
	store.Add(testGIF(), "")

	if n := store.Prune(func(h *MediaHandle) bool { return h == keep }); n != 1 {
		t.Errorf("Prune() = %d, want 1", n)
	}
	all := store.All()
	if len(all) != 1 || all[0] != keep {
		t.Errorf("All() after Prune = %v, want only the kept entry", all)
	}
}
