package component

import "testing"

func TestBoxColliderBoundsAppliesOffset(t *testing.T) {
	c := &BoxCollider{Width: 10, Height: 20, OffsetX: 2, OffsetY: -3}
	left, right, top, bottom := c.Bounds(100, 200)

	if left != 97 || right != 107 {
		t.Fatalf("left/right = %v/%v, want 97/107", left, right)
	}
	if top != 187 || bottom != 207 {
		t.Fatalf("top/bottom = %v/%v, want 187/207", top, bottom)
	}
}

func TestBoxColliderBoundsNoOffsetIsCenteredOnTransform(t *testing.T) {
	c := &BoxCollider{Width: 16, Height: 16}
	left, right, top, bottom := c.Bounds(0, 0)
	if left != -8 || right != 8 || top != -8 || bottom != 8 {
		t.Fatalf("unexpected bounds %v %v %v %v", left, right, top, bottom)
	}
}

func TestTileKindSolid(t *testing.T) {
	cases := map[TileKind]bool{
		TileEmpty: false, TileGround: false, TileWall: true,
		TileCeiling: true, TilePlatform: false,
	}
	for k, want := range cases {
		if got := k.Solid(); got != want {
			t.Fatalf("%v.Solid() = %v, want %v", k, got, want)
		}
	}
}

func TestTileMapAtOutOfBoundsIsEmpty(t *testing.T) {
	m := &TileMap{Width: 2, Height: 2, Tiles: []TileKind{TileWall, TileEmpty, TileEmpty, TileEmpty}}
	if m.At(-1, 0) != TileEmpty || m.At(2, 0) != TileEmpty || m.At(0, 2) != TileEmpty {
		t.Fatalf("out-of-bounds tiles must read as TileEmpty")
	}
	if m.At(0, 0) != TileWall {
		t.Fatalf("At(0,0) = %v, want TileWall", m.At(0, 0))
	}
}
