package storefront

// GraphQL documents sent to the API. Operation names label metrics and logs.
const (
	opLogin            = "OwnerLogin"
	opRegisterOwner    = "OwnerSignUp"
	opFindOwnerByEmail = "findbyEmail"
	opCreateStore      = "CreateNewStore"
	opFindStoreByID    = "GetCurrentStore"
	opUpdateStore      = "updateStore"
	opDeleteStore      = "deleteStore"
	opCreateProduct    = "CreateProduct"
	opAllShops         = "gelAllShops"
	opAllProducts      = "ALL_PRODUCTS"

	pageSize = 100
)

const storeFields = `
	_id
	name
	email
	categories
	paymentMethods
	publicKey
	owner {
		_id
		email
	}
`

const loginMutation = `
mutation OwnerLogin($email: String!, $password: String!) {
	login(email: $email, password: $password) {
		ttl
		secret
		email
	}
}`

const registerOwnerMutation = `
mutation OwnerSignUp($email: String!, $name: String!, $password: String!) {
	registerOwner(email: $email, name: $name, password: $password) {
		_id
		name
		email
	}
}`

const findOwnerByEmailQuery = `
query findbyEmail($email: String!) {
	findOwnerByEmail(email: $email) {
		_id
		name
		email
		stores {
			data {
				_id
				name
			}
		}
	}
}`

const createStoreMutation = `
mutation CreateNewStore($name: String!, $email: String!, $categories: [String], $paymentMethods: [String], $ownerID: ID!) {
	createStore(data: {
		name: $name,
		email: $email,
		categories: $categories,
		paymentMethods: $paymentMethods,
		owner: { connect: $ownerID }
	}) {` + storeFields + `}
}`

const findStoreByIDQuery = `
query GetCurrentStore($id: ID!) {
	findStoreByID(id: $id) {` + storeFields + `}
}`

const updateStoreMutation = `
mutation updateStore($id: ID!, $input: StoreInput!) {
	updateStore(id: $id, data: $input) {` + storeFields + `}
}`

const deleteStoreMutation = `
mutation deleteStore($id: ID!) {
	deleteStore(id: $id) {
		_id
	}
}`

const createProductMutation = `
mutation CreateProduct($name: String!, $description: String, $price: Float!, $image: String, $storeID: ID!) {
	createProduct(data: {
		name: $name,
		description: $description,
		price: $price,
		image: $image,
		store: { connect: $storeID }
	}) {
		_id
		name
		description
		price
		image
	}
}`

const allShopsQuery = `
query gelAllShops($size: Int) {
	allShops(_size: $size) {
		data {
			_id
			name
			publicKey
		}
	}
}`

const allProductsQuery = `
query ALL_PRODUCTS($size: Int) {
	allProducts(_size: $size) {
		data {
			_id
			name
			description
			price
			image
		}
	}
}`
