package orchestrator

import "github.com/ccastillo/delivery-orchestrator/internal/schema"

// Candidate-key definitions for every upstream field the orchestrator reads.
// The collaborators have drifted through several schema revisions; a new
// variant is a new key here, never a conditional in the workflows.
var (
	fieldAddressID = schema.NewField("id_direccion", "direccion_id", "id")

	fieldProductName  = schema.NewField("nombre", "name")
	fieldProductPrice = schema.NewField("precio", "price", "valor")

	fieldCategoryID = schema.NewField("categoria_id", "id_categoria", "category_id", "categoriaId").
			WithNested(
			schema.NewField("categoria", "category"),
			schema.NewField("id", "id_categoria", "categoria_id"),
		)

	// Entries of the /categorias collection.
	fieldCategoryEntryID = schema.NewField("id_categoria", "categoria_id", "id", "category_id")
	fieldCategoryName    = schema.NewField("nombre_categoria", "categoria_nombre", "nombre", "name")

	fieldOrderOwner = schema.NewField("id_usuario", "usuario_id", "user_id")
	fieldOrderState = schema.NewField("estado", "status")
)
