package generator

// varSet selects which placeholders a catalog entry receives.
type varSet int

const (
	varsNone varSet = iota
	varsClass
	varsEntity
	varsPersistence
)

const markerTemplate = "gitignore.tmpl"

const markerFile = ".gitignore"

// entry is one row of the fixed catalog. An empty class format means the
// entry is a layer marker written as markerFile.
type entry struct {
	template string
	dir      []string
	class    string // class name format; %s is the short type name
	vars     varSet
	include  func(withSpec bool, o Options) bool
}

func always(bool, Options) bool { return true }

func withSpec(spec bool, _ Options) bool { return spec }

func withSearch(spec bool, o Options) bool { return spec && o.SearchSpecification }

func withDbalType(_ bool, o Options) bool { return o.DbalIDType }

var (
	applicationDir = []string{"Application"}
	modelDir       = []string{"Domain", "Model"}
	infraDir       = []string{"Infrastructure"}
	doctrineDir    = []string{"Infrastructure", "Persistence", "Doctrine"}
	dbalTypeDir    = []string{"Infrastructure", "Persistence", "Doctrine", "Dbal", "Type"}
	doctrineSpec   = []string{"Infrastructure", "Persistence", "Doctrine", "Specification"}
	inMemoryDir    = []string{"Infrastructure", "Persistence", "InMemory"}
	inMemorySpec   = []string{"Infrastructure", "Persistence", "InMemory", "Specification"}
)

const (
	tplDomain   = "src/Module/Domain/Model/"
	tplDoctrine = "src/Module/Infrastructure/Persistence/Doctrine/"
	tplInMemory = "src/Module/Infrastructure/Persistence/InMemory/"
)

var basicCatalog = []entry{
	{template: markerTemplate, dir: applicationDir, include: always},
	{template: markerTemplate, dir: modelDir, include: always},
	{template: markerTemplate, dir: infraDir, include: always},
}

var fullCatalog = []entry{
	{template: markerTemplate, dir: applicationDir, include: always},

	{template: tplDomain + "Entity.php.tmpl", dir: modelDir, class: "%s", vars: varsEntity, include: always},
	{template: tplDomain + "EntityId.php.tmpl", dir: modelDir, class: "%sId", vars: varsClass, include: always},
	{template: tplDomain + "EntityDto.php.tmpl", dir: modelDir, class: "%sDto", vars: varsEntity, include: always},
	{template: tplDomain + "Event.php.tmpl", dir: modelDir, class: "%sWasCreated", vars: varsEntity, include: always},
	{template: tplDomain + "EntityNotFound.php.tmpl", dir: modelDir, class: "%sNotFound", vars: varsEntity, include: always},
	{template: tplDomain + "EntityRepository.php.tmpl", dir: modelDir, class: "%sRepository", vars: varsEntity, include: always},
	{template: tplDomain + "EntitySpecification.php.tmpl", dir: modelDir, class: "%sSpecification", vars: varsEntity, include: withSpec},
	{template: tplDomain + "EntitySpecificationFactory.php.tmpl", dir: modelDir, class: "%sSpecificationFactory", vars: varsEntity, include: withSpec},

	{template: tplDoctrine + "Dbal/Type/EntityIdType.php.tmpl", dir: dbalTypeDir, class: "%sIdType", vars: varsPersistence, include: withDbalType},
	{template: tplDoctrine + "DoctrineEntityRepository.php.tmpl", dir: doctrineDir, class: "Doctrine%sRepository", vars: varsPersistence, include: always},
	{template: tplInMemory + "InMemoryEntityRepository.php.tmpl", dir: inMemoryDir, class: "InMemory%sRepository", vars: varsPersistence, include: always},

	{template: tplDoctrine + "Specification/DoctrineEntitySpecification.php.tmpl", dir: doctrineSpec, class: "Doctrine%sSpecification", vars: varsPersistence, include: withSpec},
	{template: tplDoctrine + "Specification/DoctrineSearchEntitySpecification.php.tmpl", dir: doctrineSpec, class: "DoctrineSearch%sSpecification", vars: varsPersistence, include: withSearch},
	{template: tplDoctrine + "Specification/DoctrineEntitySpecificationFactory.php.tmpl", dir: doctrineSpec, class: "Doctrine%sSpecificationFactory", vars: varsPersistence, include: withSpec},
	{template: tplInMemory + "Specification/InMemoryEntitySpecification.php.tmpl", dir: inMemorySpec, class: "InMemory%sSpecification", vars: varsPersistence, include: withSpec},
	{template: tplInMemory + "Specification/InMemorySearchEntitySpecification.php.tmpl", dir: inMemorySpec, class: "InMemorySearch%sSpecification", vars: varsPersistence, include: withSearch},
	{template: tplInMemory + "Specification/InMemoryEntitySpecificationFactory.php.tmpl", dir: inMemorySpec, class: "InMemory%sSpecificationFactory", vars: varsPersistence, include: withSpec},
}
