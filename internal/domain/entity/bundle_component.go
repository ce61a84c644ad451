package entity

// BundleComponent es la arista padre→hijo del grafo de combos:
// una unidad del padre consume QuantityPerUnit unidades del hijo.
// El grafo debe ser acíclico; el hijo puede ser a su vez un combo.
type BundleComponent struct {
	ParentID        string
	ChildID         string
	QuantityPerUnit int64 // > 0
}
